package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"xhs_feishu_ops_v1/internal/api/dto"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/pkg/apperr"
)

// ==================== 外部服务依赖 ====================

// AIServiceInterface 文案生成服务接口
type AIServiceInterface interface {
	RewriteBody(ctx context.Context, prompt, source string) (string, error)
	RewriteTitle(ctx context.Context, prompt, original string) string
}

// ==================== 服务 ====================

// RewriteService 笔记改写与发布簿记
type RewriteService struct {
	bitable  BitableServiceInterface
	ai       AIServiceInterface
	noteRepo repository.NoteRepository
}

// NewRewriteService 创建改写服务
func NewRewriteService(bitable BitableServiceInterface, ai AIServiceInterface, noteRepo repository.NoteRepository) *RewriteService {
	return &RewriteService{
		bitable:  bitable,
		ai:       ai,
		noteRepo: noteRepo,
	}
}

// ==================== 改写 ====================

// Rewrite 生成改写草稿
// 正文生成是必选步骤，失败向上抛；标题生成失败降级沿用原标题。
// 草稿只随响应返回，不落库
func (s *RewriteService) Rewrite(ctx context.Context, req *dto.RewriteRequest) (*model.NoteDraft, error) {
	title, content, tags := req.Title, req.Content, req.Tags

	// 给了 record_id 时以表格里的字段为准
	if req.RecordID != "" {
		rec, err := s.bitable.GetRecord(ctx, req.RecordID)
		if err != nil {
			return nil, err
		}
		title = FieldString(rec.Fields, model.FieldTitle)
		content = FieldString(rec.Fields, model.FieldContent)
	}

	if content == "" {
		return nil, apperr.Validation("待改写正文为空")
	}

	newContent, err := s.ai.RewriteBody(ctx, req.Prompt, content)
	if err != nil {
		return nil, err
	}
	newTitle := s.ai.RewriteTitle(ctx, "", title)

	return &model.NoteDraft{
		Title:   newTitle,
		Content: newContent,
		Tags:    tags,
	}, nil
}

// ==================== 发布簿记 ====================

// Publish 记录定稿
// 本地清单落一行 (尽力而为)；带 record_id 时把定稿字段与状态回写表格
func (s *RewriteService) Publish(ctx context.Context, req *dto.PublishRequest) (*model.Note, error) {
	note := &model.Note{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Images:  req.Images,
		Status:  model.NoteStatusDone,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logrus.WithError(err).Warn("发布簿记写入失败")
	}

	if req.RecordID != "" {
		fields := map[string]interface{}{
			model.FieldTitle:   req.Title,
			model.FieldContent: req.Content,
			model.FieldStatus:  model.NoteStatusDone,
		}
		if err := s.bitable.UpdateRecord(ctx, req.RecordID, fields); err != nil {
			return nil, err
		}
	}
	return note, nil
}
