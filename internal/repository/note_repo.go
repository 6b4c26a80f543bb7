package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"xhs_feishu_ops_v1/internal/model"
)

// ==================== 仓储接口 ====================

// NoteRepository 本地笔记工作清单仓储接口
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, id int64) (*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter NoteFilter) ([]model.Note, int64, error)
}

// ==================== 过滤条件 ====================

// NoteFilter 列表过滤条件
type NoteFilter struct {
	Status string
	Limit  int
	Offset int
}

// ==================== 仓储实现 ====================

type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository 创建笔记仓储
// db 为 nil 时退化为 no-op 实现 (只读部署环境，簿记静默失效)
func NewNoteRepository(db *gorm.DB) NoteRepository {
	if db == nil {
		logrus.Warn("本地数据库不可用，笔记清单进入只读降级模式")
		return &noopNoteRepo{}
	}
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepo) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) Update(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(fields).Error
}

func (r *noteRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Note{}, id).Error
}

func (r *noteRepo) List(ctx context.Context, filter NoteFilter) ([]model.Note, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Note{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var notes []model.Note
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&notes).Error
	return notes, total, err
}

// ==================== 降级实现 ====================

// noopNoteRepo 只读部署环境下的空实现，写入静默丢弃
type noopNoteRepo struct{}

func (r *noopNoteRepo) Create(ctx context.Context, note *model.Note) error { return nil }
func (r *noopNoteRepo) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *noopNoteRepo) Update(ctx context.Context, note *model.Note) error { return nil }
func (r *noopNoteRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return nil
}
func (r *noopNoteRepo) Delete(ctx context.Context, id int64) error { return nil }
func (r *noopNoteRepo) List(ctx context.Context, filter NoteFilter) ([]model.Note, int64, error) {
	return []model.Note{}, 0, nil
}
