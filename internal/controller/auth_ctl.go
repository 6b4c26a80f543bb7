package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xhs_feishu_ops_v1/internal/service"
)

// ==================== 控制器 ====================

// AuthController 飞书授权控制器
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// ==================== API 方法 ====================

// Login 获取授权链接
// @Summary 生成飞书授权链接
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/login [get]
func (ctrl *AuthController) Login(c *gin.Context) {
	loginURL, err := ctrl.authService.BuildLoginURL()
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, gin.H{"url": loginURL})
}

// Callback 授权回调
// @Summary 处理飞书授权回调，换取并保存凭证
// @Tags Auth
// @Param code query string true "授权码"
// @Param state query string true "防 CSRF state"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/callback [get]
func (ctrl *AuthController) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if err := ctrl.authService.HandleCallback(c.Request.Context(), code, state); err != nil {
		respError(c, err)
		return
	}
	respOK(c, gin.H{"loggedIn": true})
}

// Status 登录状态
// @Summary 查询当前登录状态
// @Tags Auth
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/status [get]
func (ctrl *AuthController) Status(c *gin.Context) {
	loggedIn := ctrl.authService.IsLoggedIn(c.Request.Context())
	respOK(c, gin.H{"loggedIn": loggedIn})
}

// Logout 登出
// @Summary 删除本地凭证
// @Tags Auth
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context()); err != nil {
		respFail(c, http.StatusInternalServerError, "登出失败: "+err.Error())
		return
	}
	respOK(c, gin.H{"loggedIn": false})
}
