package dto

import "xhs_feishu_ops_v1/internal/model"

// ==================== 本地工作清单 ====================

// CreateNoteRequest 新建清单笔记请求
type CreateNoteRequest struct {
	Title     string   `json:"title" binding:"required"`
	Content   string   `json:"content"`
	SourceURL string   `json:"source_url"`
	Tags      []string `json:"tags"`
	Images    []string `json:"images"`
}

// UpdateNoteRequest 更新清单笔记请求 (nil 字段不更新)
type UpdateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Images  *[]string `json:"images"`
	Status  *string   `json:"status"`
}

// NoteListResponse 清单分页响应
type NoteListResponse struct {
	Total int64        `json:"total"`
	Items []model.Note `json:"items"`
}

// ==================== 改写 / 发布 ====================

// RewriteRequest 笔记改写请求
// record_id 与 (title, content) 二选一；同时给出时以 record_id 拉取的字段为准
type RewriteRequest struct {
	RecordID string   `json:"record_id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Prompt   string   `json:"prompt"`
}

// PublishRequest 发布簿记请求
type PublishRequest struct {
	RecordID string   `json:"record_id"`
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Tags     []string `json:"tags"`
	Images   []string `json:"images"`
}
