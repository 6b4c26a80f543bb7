package dto

import "xhs_feishu_ops_v1/pkg/feishu"

// ==================== 多维表格记录 ====================

// CreateRecordsRequest 批量创建记录请求
type CreateRecordsRequest struct {
	Records []map[string]interface{} `json:"records" binding:"required"`
}

// UpdateRecordRequest 更新记录请求
type UpdateRecordRequest struct {
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// RecordListResponse 记录分页响应
type RecordListResponse struct {
	HasMore   bool            `json:"has_more"`
	PageToken string          `json:"page_token,omitempty"`
	Total     int             `json:"total"`
	Items     []feishu.Record `json:"items"`
}
