package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/pkg/apperr"
	"xhs_feishu_ops_v1/pkg/feishu"
)

// ==================== 测试替身 ====================

// fakeBitable 内存表格，记录所有回写以便断言状态机流转
type fakeBitable struct {
	records []feishu.Record
	// updates 按记录分组的回写历史
	updates map[string][]map[string]interface{}
}

func newFakeBitable(records ...feishu.Record) *fakeBitable {
	return &fakeBitable{records: records, updates: map[string][]map[string]interface{}{}}
}

func (f *fakeBitable) ListAllRecords(ctx context.Context) ([]feishu.Record, error) {
	return f.records, nil
}

func (f *fakeBitable) GetRecord(ctx context.Context, recordID string) (*feishu.Record, error) {
	for _, rec := range f.records {
		if rec.RecordID == recordID {
			return &rec, nil
		}
	}
	return nil, apperr.Remote(91402, "record not found")
}

func (f *fakeBitable) UpdateRecord(ctx context.Context, recordID string, fields map[string]interface{}) error {
	f.updates[recordID] = append(f.updates[recordID], fields)
	return nil
}

// lastStatus 最后一次回写的状态值
func (f *fakeBitable) lastStatus(recordID string) string {
	history := f.updates[recordID]
	for i := len(history) - 1; i >= 0; i-- {
		if status, ok := history[i][model.FieldStatus].(string); ok {
			return status
		}
	}
	return ""
}

// fakeScraper 按 URL 返回预设详情或错误
type fakeScraper struct {
	details map[string]*NoteDetail
	errors  map[string]error
	calls   int
}

func (f *fakeScraper) FetchNoteDetail(ctx context.Context, noteURL string) (*NoteDetail, error) {
	f.calls++
	if err, ok := f.errors[noteURL]; ok {
		return nil, err
	}
	if detail, ok := f.details[noteURL]; ok {
		return detail, nil
	}
	return &NoteDetail{Title: "默认标题", Text: "默认正文"}, nil
}

// fakeMedia 把源 URL 直接映射成 file_token
type fakeMedia struct {
	failAll bool
}

func (f *fakeMedia) TransferImages(ctx context.Context, srcURLs []string) []feishu.Attachment {
	if f.failAll {
		return nil
	}
	out := make([]feishu.Attachment, 0, len(srcURLs))
	for i := range srcURLs {
		out = append(out, feishu.Attachment{FileToken: fmt.Sprintf("ftk_%d", i)})
	}
	return out
}

func noteRecord(id, noteURL, status string) feishu.Record {
	fields := map[string]interface{}{}
	if noteURL != "" {
		fields[model.FieldNoteURL] = noteURL
	}
	if status != "" {
		fields[model.FieldStatus] = status
	}
	return feishu.Record{RecordID: id, Fields: fields}
}

func newExtractTestService(bitable *fakeBitable, scraper *fakeScraper, media *fakeMedia) *ExtractService {
	if scraper == nil {
		scraper = &fakeScraper{}
	}
	if media == nil {
		media = &fakeMedia{}
	}
	return NewExtractService(
		bitable, scraper, media,
		repository.NewNoteRepository(nil),
		"http://localhost:8080",
		time.Millisecond,
	)
}

// ==================== 批量提取 ====================

func TestBatchExtract_部分失败不中断整批(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusPending),
		noteRecord("rec2", "https://xhs.example/note/2", model.NoteStatusPending),
		noteRecord("rec3", "https://xhs.example/note/3", model.NoteStatusPending),
	)
	scraper := &fakeScraper{
		errors: map[string]error{
			"https://xhs.example/note/2": apperr.Remote(500, "笔记已被删除"),
		},
	}
	svc := newExtractTestService(bitable, scraper, nil)

	result, err := svc.BatchExtract(context.Background(), nil)
	require.NoError(t, err, "单条失败不应中断整批")

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailCount)
	assert.Equal(t, 0, result.SkipCount)

	// results 与输入顺序一致
	require.Len(t, result.Results, 3)
	assert.Equal(t, "rec1", result.Results[0].RecordID)
	assert.True(t, result.Results[0].Success)
	assert.Equal(t, "rec2", result.Results[1].RecordID)
	assert.False(t, result.Results[1].Success)
	assert.Contains(t, result.Results[1].Error, "笔记已被删除")

	// 状态机: 成功行终态 done，失败行终态 failed 且带失败原因
	assert.Equal(t, model.NoteStatusDone, bitable.lastStatus("rec1"))
	assert.Equal(t, model.NoteStatusFailed, bitable.lastStatus("rec2"))
	assert.Equal(t, model.NoteStatusDone, bitable.lastStatus("rec3"))

	lastUpdate := bitable.updates["rec2"][len(bitable.updates["rec2"])-1]
	assert.Contains(t, lastUpdate[model.FieldError], "笔记已被删除")
}

func TestBatchExtract_先置提取中再回写(t *testing.T) {
	bitable := newFakeBitable(noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusPending))
	svc := newExtractTestService(bitable, nil, nil)

	_, err := svc.BatchExtract(context.Background(), nil)
	require.NoError(t, err)

	history := bitable.updates["rec1"]
	require.Len(t, history, 2)
	assert.Equal(t, model.NoteStatusExtracting, history[0][model.FieldStatus])
	assert.Equal(t, model.NoteStatusDone, history[1][model.FieldStatus])
	// 成功回写时清空历史失败原因
	assert.Equal(t, "", history[1][model.FieldError])
}

func TestBatchExtract_空链接行跳过(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("rec1", "", model.NoteStatusPending),
		noteRecord("rec2", "https://xhs.example/note/2", model.NoteStatusPending),
	)
	svc := newExtractTestService(bitable, nil, nil)

	result, err := svc.BatchExtract(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.SkipCount)
	assert.True(t, result.Results[0].Skipped)
	// 跳过的行不应被写状态
	assert.Empty(t, bitable.updates["rec1"])
}

func TestBatchExtract_幂等重跑只选待处理行(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("recDone", "https://xhs.example/note/1", model.NoteStatusDone),
		noteRecord("recPending", "https://xhs.example/note/2", model.NoteStatusPending),
		noteRecord("recFailed", "https://xhs.example/note/3", model.NoteStatusFailed),
		noteRecord("recBlank", "https://xhs.example/note/4", ""),
	)
	scraper := &fakeScraper{}
	svc := newExtractTestService(bitable, scraper, nil)

	result, err := svc.BatchExtract(context.Background(), nil)
	require.NoError(t, err)

	// done 行不重复处理，pending/failed/空状态行重跑
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, scraper.calls)
	assert.Empty(t, bitable.updates["recDone"])
	assert.Equal(t, model.NoteStatusDone, bitable.lastStatus("recFailed"))
}

func TestBatchExtract_显式ID保持给定顺序(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusDone),
		noteRecord("rec2", "https://xhs.example/note/2", model.NoteStatusDone),
	)
	svc := newExtractTestService(bitable, nil, nil)

	// 显式指定时不看状态，done 行也处理；不存在的 ID 因缺链接被跳过
	result, err := svc.BatchExtract(context.Background(), []string{"rec2", "recGhost", "rec1"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.SkipCount)
	assert.Equal(t, "rec2", result.Results[0].RecordID)
	assert.Equal(t, "recGhost", result.Results[1].RecordID)
	assert.Equal(t, "rec1", result.Results[2].RecordID)
}

func TestBatchExtract_搬图失败降级为少图(t *testing.T) {
	bitable := newFakeBitable(noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusPending))
	scraper := &fakeScraper{
		details: map[string]*NoteDetail{
			"https://xhs.example/note/1": {
				Title:  "标题",
				Text:   "正文",
				Cover:  "https://img.example/cover.jpg",
				Images: []string{"https://img.example/1.jpg"},
			},
		},
	}
	svc := newExtractTestService(bitable, scraper, &fakeMedia{failAll: true})

	result, err := svc.BatchExtract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount, "搬图全部失败仍算本条成功")

	last := bitable.updates["rec1"][len(bitable.updates["rec1"])-1]
	assert.Equal(t, model.NoteStatusDone, last[model.FieldStatus])
	_, hasCover := last[model.FieldCover]
	assert.False(t, hasCover, "搬图失败不应写入封面列")
}

func TestBatchExtract_取消时提前返回(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusPending),
		noteRecord("rec2", "https://xhs.example/note/2", model.NoteStatusPending),
	)
	svc := newExtractTestService(bitable, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.BatchExtract(ctx, nil)
	assert.Error(t, err)
	// 第一条不等间隔直接执行，取消发生在条目间
	assert.Equal(t, 1, len(result.Results))
}

// ==================== 批量装链 ====================

func TestBatchInstallDeeplink(t *testing.T) {
	bitable := newFakeBitable(
		noteRecord("rec1", "https://xhs.example/note/1", model.NoteStatusPending),
	)
	svc := newExtractTestService(bitable, nil, nil)

	result, err := svc.BatchInstallDeeplink(context.Background(), []string{"rec1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	last := bitable.updates["rec1"][len(bitable.updates["rec1"])-1]
	assert.Equal(t, "http://localhost:8080/rewrite?record_id=rec1", last[model.FieldDeeplink])
}

// ==================== 字段取值 ====================

func TestFieldString(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{
			name:   "纯文本",
			fields: map[string]interface{}{"k": "hello"},
			want:   "hello",
		},
		{
			name:   "链接列对象取link",
			fields: map[string]interface{}{"k": map[string]interface{}{"link": "https://x.com", "text": "x"}},
			want:   "https://x.com",
		},
		{
			name:   "对象无link取text",
			fields: map[string]interface{}{"k": map[string]interface{}{"text": "文本"}},
			want:   "文本",
		},
		{
			name: "分段数组拼接",
			fields: map[string]interface{}{"k": []interface{}{
				map[string]interface{}{"text": "前段"},
				map[string]interface{}{"text": "后段"},
			}},
			want: "前段后段",
		},
		{
			name:   "字段缺失",
			fields: map[string]interface{}{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldString(tt.fields, "k"))
		})
	}
}
