package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xhs_feishu_ops_v1/pkg/apperr"
)

// ==================== 统一响应包 ====================

// respOK 成功响应 { success: true, data }
func respOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respFail 失败响应 { success: false, error }
func respFail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// respError 按错误分类映射状态码
// 校验错误 400，凭证错误按未登录返回，其余一律 500
func respError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		respFail(c, http.StatusBadRequest, err.Error())
	case apperr.KindAuth:
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"loggedIn": false,
			"error":    err.Error(),
		})
	default:
		respFail(c, http.StatusInternalServerError, err.Error())
	}
}
