package feishu

// ==========================================
// DTO: 发往飞书开放平台的请求体
// ==========================================

// 开放平台端点常量
const (
	// DefaultBaseURL 开放平台域名
	DefaultBaseURL = "https://open.feishu.cn"

	// AuthorizeURL 用户授权页
	AuthorizeURL = "https://accounts.feishu.cn/open-apis/authen/v1/authorize"

	// UserTokenPath 用户 Token 换取/刷新
	UserTokenPath = "/open-apis/authen/v2/oauth/token"

	// TenantTokenPath 应用 Token 获取 (自建应用)
	TenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"

	// MediaUploadPath 素材上传
	MediaUploadPath = "/open-apis/drive/v1/medias/upload_all"

	// MaxPageSize 记录列表单页上限
	MaxPageSize = 500

	// MaxBatchCreate 批量创建单次上限
	MaxBatchCreate = 500
)

// UserTokenReq 换取/刷新用户 Token 请求
// grant_type: authorization_code | refresh_token
type UserTokenReq struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TenantTokenReq 应用 Token 请求
type TenantTokenReq struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

// RecordReq 创建/更新记录请求体
type RecordReq struct {
	Fields map[string]interface{} `json:"fields"`
}

// BatchCreateReq 批量创建请求体
type BatchCreateReq struct {
	Records []RecordReq `json:"records"`
}
