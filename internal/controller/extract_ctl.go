package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xhs_feishu_ops_v1/internal/api/dto"
	"xhs_feishu_ops_v1/internal/service"
)

// ==================== 控制器 ====================

// ExtractController 批量操作控制器
// 批处理在请求生命周期内同步执行，调用方阻塞到整批结束；
// 单项失败不影响整体 200
type ExtractController struct {
	extractService *service.ExtractService
}

func NewExtractController(extractService *service.ExtractService) *ExtractController {
	return &ExtractController{extractService: extractService}
}

// ==================== API 方法 ====================

// BatchExtract 批量提取
// @Summary 批量提取笔记详情写回表格
// @Tags Extract
// @Accept json
// @Param body body dto.BatchRequest false "record_ids 为空时处理全部待处理行"
// @Success 200 {object} dto.BatchResult
// @Router /api/records/batch_extract [post]
func (ctrl *ExtractController) BatchExtract(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.extractService.BatchExtract(c.Request.Context(), req.RecordIDs)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, result)
}

// BatchDeeplink 批量装改写深链
// @Summary 为选中行生成并写入改写深链
// @Tags Extract
// @Accept json
// @Param body body dto.BatchRequest false "record_ids 为空时处理全部待处理行"
// @Success 200 {object} dto.BatchResult
// @Router /api/records/batch_deeplink [post]
func (ctrl *ExtractController) BatchDeeplink(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.extractService.BatchInstallDeeplink(c.Request.Context(), req.RecordIDs)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, result)
}
