package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xhs_feishu_ops_v1/internal/model"
)

func setupNoteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Note{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func TestNoteRepo_CreateAndGet(t *testing.T) {
	repo := NewNoteRepository(setupNoteTestDB(t))
	ctx := context.Background()

	note := &model.Note{
		Title:     "测试笔记",
		Content:   "正文内容",
		SourceURL: "https://www.xiaohongshu.com/explore/abc123",
		Tags:      model.StringSlice{"穿搭", "好物"},
		Images:    model.StringSlice{"https://img.example.com/1.jpg"},
		Status:    model.NoteStatusPending,
	}

	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.ID == 0 {
		t.Fatal("Create() 未回填自增 ID")
	}

	got, err := repo.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != note.Title {
		t.Errorf("Title = %s, want %s", got.Title, note.Title)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "穿搭" {
		t.Errorf("Tags 反序列化错误: %v", got.Tags)
	}
}

func TestNoteRepo_ListFilterByStatus(t *testing.T) {
	repo := NewNoteRepository(setupNoteTestDB(t))
	ctx := context.Background()

	statuses := []string{
		model.NoteStatusPending,
		model.NoteStatusPending,
		model.NoteStatusDone,
		model.NoteStatusFailed,
	}
	for i, status := range statuses {
		if err := repo.Create(ctx, &model.Note{Title: "n", Status: status}); err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}

	notes, total, err := repo.List(ctx, NoteFilter{Status: model.NoteStatusPending})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(notes) != 2 {
		t.Errorf("按状态过滤 total = %d, len = %d, want 2, 2", total, len(notes))
	}

	// 不带过滤时返回全部
	_, total, err = repo.List(ctx, NoteFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestNoteRepo_ListPagination(t *testing.T) {
	repo := NewNoteRepository(setupNoteTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, &model.Note{Title: "n", Status: model.NoteStatusPending}); err != nil {
			t.Fatalf("Create error = %v", err)
		}
	}

	notes, total, err := repo.List(ctx, NoteFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(notes) != 1 {
		t.Errorf("len = %d, want 1 (末页)", len(notes))
	}
}

func TestNoteRepo_UpdateFieldsAndDelete(t *testing.T) {
	repo := NewNoteRepository(setupNoteTestDB(t))
	ctx := context.Background()

	note := &model.Note{Title: "原标题", Status: model.NoteStatusPending}
	if err := repo.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.UpdateFields(ctx, note.ID, map[string]interface{}{
		"title":  "新标题",
		"status": model.NoteStatusDone,
	})
	if err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}

	got, _ := repo.GetByID(ctx, note.ID)
	if got.Title != "新标题" || got.Status != model.NoteStatusDone {
		t.Errorf("更新未生效: %+v", got)
	}

	if err := repo.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, note.ID); err == nil {
		t.Error("删除后仍能查到记录")
	}
}

func TestNoteRepo_NoopFallback(t *testing.T) {
	// 只读部署环境: db 为 nil，写入静默丢弃，读取返回空
	repo := NewNoteRepository(nil)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Note{Title: "x"}); err != nil {
		t.Errorf("降级模式 Create 应静默成功, got %v", err)
	}

	notes, total, err := repo.List(ctx, NoteFilter{})
	if err != nil {
		t.Errorf("降级模式 List error = %v", err)
	}
	if total != 0 || len(notes) != 0 {
		t.Errorf("降级模式应返回空清单")
	}
}
