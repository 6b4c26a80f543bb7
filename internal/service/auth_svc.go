package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"xhs_feishu_ops_v1/internal/config"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/pkg/apperr"
	"xhs_feishu_ops_v1/pkg/feishu"
	"xhs_feishu_ops_v1/pkg/utils"
)

// ==================== 服务 ====================

// AuthService 飞书授权服务
// 负责 OAuth 换码、Token 生命周期管理与应用级 Token 获取
type AuthService struct {
	cfg    *config.FeishuConfig
	store  repository.CredentialStore
	client *resty.Client

	// refreshGroup 合并并发刷新：同一个 refresh_token 的刷新只打一次授权服务器
	refreshGroup singleflight.Group

	// 应用级 Token 内存缓存
	tenantMu        sync.Mutex
	tenantToken     string
	tenantExpiresAt time.Time
}

// NewAuthService 工厂方法
func NewAuthService(cfg *config.FeishuConfig, store repository.CredentialStore) *AuthService {
	return &AuthService{
		cfg:    cfg,
		store:  store,
		client: utils.NewAPIClient(cfg.BaseURL, 20*time.Second),
	}
}

// ==================== 授权流程 ====================

// BuildLoginURL 生成飞书授权链接
func (s *AuthService) BuildLoginURL() (string, error) {
	if s.cfg.AppID == "" || s.cfg.RedirectURI == "" {
		return "", apperr.Validation("飞书 app_id / redirect_uri 未配置")
	}

	state, err := utils.GenerateRandomString(16)
	if err != nil {
		return "", err
	}
	// state 入缓存，回调时校验防 CSRF
	utils.SetCache(state, "login")

	authURL := fmt.Sprintf(
		"%s?client_id=%s&redirect_uri=%s&state=%s",
		feishu.AuthorizeURL, s.cfg.AppID, url.QueryEscape(s.cfg.RedirectURI), state,
	)
	return authURL, nil
}

// HandleCallback 处理授权回调 -> 换 Token 并整条落盘
func (s *AuthService) HandleCallback(ctx context.Context, code, state string) error {
	if code == "" {
		return apperr.Validation("缺少授权码 code")
	}
	if _, ok := utils.GetCache(state); !ok {
		return apperr.Validation("授权超时或 state 无效，请重新发起")
	}
	utils.DeleteCache(state)

	tokenResp, err := s.requestToken(ctx, &feishu.UserTokenReq{
		GrantType:    "authorization_code",
		ClientID:     s.cfg.AppID,
		ClientSecret: s.cfg.AppSecret,
		Code:         code,
		RedirectURI:  s.cfg.RedirectURI,
	})
	if err != nil {
		return err
	}

	cred := model.NewCredential(
		tokenResp.AccessToken, tokenResp.RefreshToken,
		tokenResp.ExpiresIn, tokenResp.RefreshTokenExpiresIn,
		time.Now(),
	)
	if err := s.store.Save(cred); err != nil {
		return fmt.Errorf("凭证落盘失败: %v", err)
	}

	logrus.WithField("expires_at", cred.ExpiresAt).Info("飞书授权成功")
	return nil
}

// ==================== Token 生命周期 ====================

// GetValidAccessToken 获取当前可用的用户级 access_token
// 返回空串表示未登录 (凭证缺失 / refresh_token 过期 / 刷新被拒)，
// 刷新失败只记日志，不作为错误向上传递
func (s *AuthService) GetValidAccessToken(ctx context.Context) (string, error) {
	cred, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", nil
	}

	now := time.Now()
	if !cred.IsTokenExpired(now) {
		return cred.AccessToken, nil
	}

	// refresh_token 本身已过期：刷新必然失败，不再发起网络请求
	if cred.IsRefreshExpired(now) {
		logrus.Warn("refresh_token 已过期，需要重新授权")
		return "", nil
	}

	return s.refreshLocked(ctx, cred)
}

// refreshLocked 经 singleflight 收敛的刷新路径
func (s *AuthService) refreshLocked(ctx context.Context, cred *model.Credential) (string, error) {
	token, err, _ := s.refreshGroup.Do(cred.RefreshToken, func() (interface{}, error) {
		// 进组后重读一次：并发请求可能已由别人完成刷新
		current, err := s.store.Load()
		if err != nil {
			return "", err
		}
		if current == nil {
			return "", nil
		}
		if !current.IsTokenExpired(time.Now()) {
			return current.AccessToken, nil
		}

		tokenResp, err := s.requestToken(ctx, &feishu.UserTokenReq{
			GrantType:    "refresh_token",
			ClientID:     s.cfg.AppID,
			ClientSecret: s.cfg.AppSecret,
			RefreshToken: current.RefreshToken,
		})
		if err != nil {
			// 刷新失败不向调用方抛错，按未登录处理
			logrus.WithError(err).Error("刷新 access_token 失败")
			return "", nil
		}

		// 整条替换，不保留旧记录的任何字段
		newCred := model.NewCredential(
			tokenResp.AccessToken, tokenResp.RefreshToken,
			tokenResp.ExpiresIn, tokenResp.RefreshTokenExpiresIn,
			time.Now(),
		)

		swapped, err := s.store.CompareAndSwap(current, newCred)
		if err != nil {
			return "", err
		}
		if !swapped {
			// 输给了另一个写入方，用对方的结果
			latest, err := s.store.Load()
			if err != nil || latest == nil {
				return "", err
			}
			return latest.AccessToken, nil
		}
		return newCred.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// IsLoggedIn 当前是否处于已登录状态
func (s *AuthService) IsLoggedIn(ctx context.Context) bool {
	token, err := s.GetValidAccessToken(ctx)
	return err == nil && token != ""
}

// Logout 登出，删除凭证记录
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Clear()
}

// ==================== 应用级 Token ====================

// GetTenantAccessToken 获取应用级 tenant_access_token (内存缓存)
// 用户未登录时多维表格调用退回到这一层
func (s *AuthService) GetTenantAccessToken(ctx context.Context) (string, error) {
	s.tenantMu.Lock()
	defer s.tenantMu.Unlock()

	if s.tenantToken != "" && time.Now().Before(s.tenantExpiresAt.Add(-model.TokenRefreshMargin)) {
		return s.tenantToken, nil
	}

	var tokenResp feishu.TenantTokenResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&feishu.TenantTokenReq{AppID: s.cfg.AppID, AppSecret: s.cfg.AppSecret}).
		SetResult(&tokenResp).
		Post(feishu.TenantTokenPath)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 || tokenResp.Code != 0 {
		return "", apperr.Remote(tokenResp.Code, tokenResp.Msg)
	}

	s.tenantToken = tokenResp.TenantAccessToken
	s.tenantExpiresAt = time.Now().Add(time.Duration(tokenResp.Expire) * time.Second)
	return s.tenantToken, nil
}

// ==================== 内部方法 ====================

// requestToken 调用授权服务器换取/刷新用户 Token
func (s *AuthService) requestToken(ctx context.Context, req *feishu.UserTokenReq) (*feishu.UserTokenResp, error) {
	var tokenResp feishu.UserTokenResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&tokenResp).
		SetError(&tokenResp).
		Post(feishu.UserTokenPath)
	if err != nil {
		return nil, fmt.Errorf("token 请求失败: %v", err)
	}

	if resp.StatusCode() != 200 || tokenResp.AccessToken == "" {
		msg := tokenResp.ErrorDescription
		if msg == "" {
			msg = tokenResp.Error
		}
		return nil, apperr.Remote(tokenResp.Code, fmt.Sprintf("授权服务器拒绝: status=%d %s", resp.StatusCode(), msg))
	}
	return &tokenResp, nil
}
