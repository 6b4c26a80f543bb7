package feishu

import "encoding/json"

// ==========================================
// DTO: 用于接收飞书开放平台返回的原始 JSON 数据
// ==========================================

// APIResponse 飞书开放平台通用响应包
// code == 0 表示成功，非 0 为业务错误
type APIResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UserTokenResp 用户级 Token 响应
// POST /open-apis/authen/v2/oauth/token
type UserTokenResp struct {
	Code                  int    `json:"code"`
	Error                 string `json:"error,omitempty"`
	ErrorDescription      string `json:"error_description,omitempty"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
}

// TenantTokenResp 应用级 Token 响应
// POST /open-apis/auth/v3/tenant_access_token/internal
type TenantTokenResp struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// Record 多维表格记录
type Record struct {
	RecordID string                 `json:"record_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// ListRecordsData 记录列表响应 data 段
// GET /open-apis/bitable/v1/apps/:app_token/tables/:table_id/records
type ListRecordsData struct {
	HasMore   bool     `json:"has_more"`
	PageToken string   `json:"page_token"`
	Total     int      `json:"total"`
	Items     []Record `json:"items"`
}

// RecordData 单条记录响应 data 段
type RecordData struct {
	Record Record `json:"record"`
}

// BatchCreateData 批量创建响应 data 段
// POST .../records/batch_create
type BatchCreateData struct {
	Records []Record `json:"records"`
}

// UploadData 素材上传响应 data 段
// POST /open-apis/drive/v1/medias/upload_all
type UploadData struct {
	FileToken string `json:"file_token"`
}

// Attachment 附件字段的单个元素
// 写入附件列时 fields 的值为 []Attachment
type Attachment struct {
	FileToken string `json:"file_token"`
}
