package model

import "time"

// ==================== 凭证记录 ====================

// Credential 飞书用户凭证记录 (单例, JSON 文件持久化)
// 过期时间在写入时一次性算好 (now + expires_in)，之后不再重算
type Credential struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// TokenRefreshMargin 提前刷新的安全边界
// 吸收时钟偏差和在途请求耗时，避免请求打到一半 Token 刚好过期
const TokenRefreshMargin = 5 * time.Minute

// IsTokenExpired access_token 是否已过期 (含安全边界)
func (c *Credential) IsTokenExpired(now time.Time) bool {
	return c.ExpiresAt.Add(-TokenRefreshMargin).Before(now)
}

// IsRefreshExpired refresh_token 是否已过期
// 一旦为真，刷新必然失败，直接视为未登录，不再发起网络请求
func (c *Credential) IsRefreshExpired(now time.Time) bool {
	return c.RefreshExpiresAt.Before(now)
}

// NewCredential 由授权服务器响应构造完整凭证记录
func NewCredential(accessToken, refreshToken string, expiresIn, refreshExpiresIn int, now time.Time) *Credential {
	return &Credential{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        now.Add(time.Duration(expiresIn) * time.Second),
		RefreshExpiresAt: now.Add(time.Duration(refreshExpiresIn) * time.Second),
		CreatedAt:        now,
	}
}
