package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"xhs_feishu_ops_v1/internal/api/dto"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/pkg/feishu"
)

// ==================== 外部服务依赖 ====================

// BitableServiceInterface 多维表格服务接口
type BitableServiceInterface interface {
	ListAllRecords(ctx context.Context) ([]feishu.Record, error)
	GetRecord(ctx context.Context, recordID string) (*feishu.Record, error)
	UpdateRecord(ctx context.Context, recordID string, fields map[string]interface{}) error
}

// ScrapeServiceInterface 抓取服务接口
type ScrapeServiceInterface interface {
	FetchNoteDetail(ctx context.Context, noteURL string) (*NoteDetail, error)
}

// MediaServiceInterface 图片中转服务接口
type MediaServiceInterface interface {
	TransferImages(ctx context.Context, srcURLs []string) []feishu.Attachment
}

// ==================== 服务 ====================

// ExtractService 批量提取编排
// 串行逐条处理，条目之间留固定间隔规避第三方限流；
// 单条失败只记入结果列表，不中断整批
type ExtractService struct {
	bitable  BitableServiceInterface
	scraper  ScrapeServiceInterface
	media    MediaServiceInterface
	noteRepo repository.NoteRepository

	// deeplinkBase 改写深链前缀 (服务对外地址)
	deeplinkBase string
	itemDelay    time.Duration
}

// NewExtractService 创建批量提取服务
func NewExtractService(
	bitable BitableServiceInterface,
	scraper ScrapeServiceInterface,
	media MediaServiceInterface,
	noteRepo repository.NoteRepository,
	deeplinkBase string,
	itemDelay time.Duration,
) *ExtractService {
	if itemDelay == 0 {
		itemDelay = 300 * time.Millisecond
	}
	return &ExtractService{
		bitable:      bitable,
		scraper:      scraper,
		media:        media,
		noteRepo:     noteRepo,
		deeplinkBase: deeplinkBase,
		itemDelay:    itemDelay,
	}
}

// ==================== 批量提取 ====================

// BatchExtract 批量提取笔记详情写回表格
// recordIDs 为空时只处理状态为 pending/failed 的行 (幂等重跑)
// 状态机: pending -> extracting -> done | failed，failed 行可被再次选中重跑
func (s *ExtractService) BatchExtract(ctx context.Context, recordIDs []string) (*dto.BatchResult, error) {
	targets, err := s.resolveTargets(ctx, recordIDs)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchResult{Total: len(targets), Results: make([]dto.ItemResult, 0, len(targets))}
	logrus.WithField("total", len(targets)).Info("开始批量提取")

	for i, rec := range targets {
		if i > 0 {
			if err := s.sleepBetween(ctx); err != nil {
				return result, err
			}
		}

		item := s.extractOne(ctx, rec)
		if !item.Success && !item.Skipped {
			logrus.WithField("record_id", item.RecordID).WithField("error", item.Error).Warn("单条提取失败")
		}
		result.Tally(item)
	}

	logrus.WithFields(logrus.Fields{
		"total": result.Total, "success": result.SuccessCount,
		"failed": result.FailCount, "skipped": result.SkipCount,
	}).Info("批量提取完成")
	return result, nil
}

// extractOne 处理单条记录: 置提取中 -> 抓详情 -> 搬图 -> 回写
func (s *ExtractService) extractOne(ctx context.Context, rec feishu.Record) dto.ItemResult {
	noteURL := FieldString(rec.Fields, model.FieldNoteURL)
	if noteURL == "" {
		return dto.ItemResult{RecordID: rec.RecordID, Skipped: true, Error: "笔记链接为空"}
	}

	if err := s.bitable.UpdateRecord(ctx, rec.RecordID, map[string]interface{}{
		model.FieldStatus: model.NoteStatusExtracting,
	}); err != nil {
		return dto.ItemResult{RecordID: rec.RecordID, Error: err.Error()}
	}

	detail, err := s.scraper.FetchNoteDetail(ctx, noteURL)
	if err != nil {
		s.markFailed(ctx, rec.RecordID, err)
		return dto.ItemResult{RecordID: rec.RecordID, Error: err.Error()}
	}

	fields := map[string]interface{}{
		model.FieldContent: detail.Text,
		model.FieldStatus:  model.NoteStatusDone,
		model.FieldError:   "",
	}
	if detail.Title != "" {
		fields[model.FieldTitle] = detail.Title
	}
	// 搬图失败降级为少图，不影响本条结果
	if detail.Cover != "" {
		if cover := s.media.TransferImages(ctx, []string{detail.Cover}); len(cover) > 0 {
			fields[model.FieldCover] = cover
		}
	}
	if len(detail.Images) > 0 {
		if images := s.media.TransferImages(ctx, detail.Images); len(images) > 0 {
			fields[model.FieldImages] = images
		}
	}

	if err := s.bitable.UpdateRecord(ctx, rec.RecordID, fields); err != nil {
		s.markFailed(ctx, rec.RecordID, err)
		return dto.ItemResult{RecordID: rec.RecordID, Error: err.Error()}
	}

	// 本地清单簿记，允许静默失效
	if err := s.noteRepo.Create(ctx, &model.Note{
		Title:     detail.Title,
		Content:   detail.Text,
		SourceURL: noteURL,
		Images:    detail.Images,
		Status:    model.NoteStatusDone,
	}); err != nil {
		logrus.WithError(err).Warn("本地清单写入失败")
	}

	return dto.ItemResult{RecordID: rec.RecordID, Success: true}
}

// ==================== 批量装链 ====================

// BatchInstallDeeplink 为选中行生成并写入改写深链
func (s *ExtractService) BatchInstallDeeplink(ctx context.Context, recordIDs []string) (*dto.BatchResult, error) {
	targets, err := s.resolveTargets(ctx, recordIDs)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchResult{Total: len(targets), Results: make([]dto.ItemResult, 0, len(targets))}

	for i, rec := range targets {
		if i > 0 {
			if err := s.sleepBetween(ctx); err != nil {
				return result, err
			}
		}

		deeplink := fmt.Sprintf("%s/rewrite?record_id=%s", s.deeplinkBase, rec.RecordID)
		if err := s.bitable.UpdateRecord(ctx, rec.RecordID, map[string]interface{}{
			model.FieldDeeplink: deeplink,
		}); err != nil {
			result.Tally(dto.ItemResult{RecordID: rec.RecordID, Error: err.Error()})
			continue
		}
		result.Tally(dto.ItemResult{RecordID: rec.RecordID, Success: true})
	}
	return result, nil
}

// ==================== 内部方法 ====================

// resolveTargets 解析操作对象
// 显式给出 record_ids 时逐条拉取 (保持给定顺序)；
// 未给出时全表筛选 pending/failed 行，已完成行不重复处理
func (s *ExtractService) resolveTargets(ctx context.Context, recordIDs []string) ([]feishu.Record, error) {
	if len(recordIDs) > 0 {
		targets := make([]feishu.Record, 0, len(recordIDs))
		for _, id := range recordIDs {
			rec, err := s.bitable.GetRecord(ctx, id)
			if err != nil {
				// 拉不到的 ID 占位成空记录，循环中因缺链接被跳过
				targets = append(targets, feishu.Record{RecordID: id, Fields: map[string]interface{}{}})
				continue
			}
			targets = append(targets, *rec)
		}
		return targets, nil
	}

	all, err := s.bitable.ListAllRecords(ctx)
	if err != nil {
		return nil, err
	}

	var targets []feishu.Record
	for _, rec := range all {
		status := FieldString(rec.Fields, model.FieldStatus)
		if status == "" || status == model.NoteStatusPending || status == model.NoteStatusFailed {
			targets = append(targets, rec)
		}
	}
	return targets, nil
}

// markFailed 把行状态置为 failed 并记录失败原因 (尽力而为)
func (s *ExtractService) markFailed(ctx context.Context, recordID string, cause error) {
	if err := s.bitable.UpdateRecord(ctx, recordID, map[string]interface{}{
		model.FieldStatus: model.NoteStatusFailed,
		model.FieldError:  cause.Error(),
	}); err != nil {
		logrus.WithError(err).WithField("record_id", recordID).Error("失败状态回写失败")
	}
}

// sleepBetween 条目间固定间隔，响应取消
func (s *ExtractService) sleepBetween(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.itemDelay):
		return nil
	}
}

// FieldString 从多维表格字段值中取文本
// 链接列是 {link, text} 对象，文本列可能是分段数组，其余按字符串处理
func FieldString(fields map[string]interface{}, key string) string {
	val, ok := fields[key]
	if !ok || val == nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case map[string]interface{}:
		if link, ok := v["link"].(string); ok && link != "" {
			return link
		}
		if text, ok := v["text"].(string); ok {
			return text
		}
	case []interface{}:
		var out string
		for _, seg := range v {
			if m, ok := seg.(map[string]interface{}); ok {
				if text, ok := m["text"].(string); ok {
					out += text
				}
			}
		}
		return out
	}
	return fmt.Sprintf("%v", val)
}
