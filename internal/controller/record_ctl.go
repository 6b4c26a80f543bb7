package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xhs_feishu_ops_v1/internal/api/dto"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/service"
	"xhs_feishu_ops_v1/pkg/feishu"
)

// ==================== 控制器 ====================

// RecordController 多维表格记录控制器 (CRUD 代理)
type RecordController struct {
	bitableService *service.BitableService
}

func NewRecordController(bitableService *service.BitableService) *RecordController {
	return &RecordController{bitableService: bitableService}
}

// ==================== API 方法 ====================

// List 分页查询记录
// @Summary 分页拉取表格记录
// @Tags Record
// @Param page_size query int false "单页条数，上限 500"
// @Param page_token query string false "翻页标记"
// @Param status query string false "按提取状态列过滤当前页"
// @Success 200 {object} dto.RecordListResponse
// @Router /api/records [get]
func (ctrl *RecordController) List(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pageToken := c.Query("page_token")

	data, err := ctrl.bitableService.ListRecords(c.Request.Context(), pageSize, pageToken)
	if err != nil {
		respError(c, err)
		return
	}

	items := data.Items
	// 开放平台列表接口不带条件查询，状态过滤在本页内完成
	if status := c.Query("status"); status != "" {
		filtered := make([]feishu.Record, 0, len(items))
		for _, rec := range items {
			if service.FieldString(rec.Fields, model.FieldStatus) == status {
				filtered = append(filtered, rec)
			}
		}
		items = filtered
	}

	respOK(c, dto.RecordListResponse{
		HasMore:   data.HasMore,
		PageToken: data.PageToken,
		Total:     data.Total,
		Items:     items,
	})
}

// Get 查询单条记录
// @Summary 按 ID 获取记录
// @Tags Record
// @Param record_id path string true "记录 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/records/{record_id} [get]
func (ctrl *RecordController) Get(c *gin.Context) {
	recordID := c.Param("record_id")
	if recordID == "" {
		respFail(c, http.StatusBadRequest, "record_id 不能为空")
		return
	}

	record, err := ctrl.bitableService.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, record)
}

// Create 批量创建记录
// @Summary 批量创建记录 (超过 500 条自动切块)
// @Tags Record
// @Accept json
// @Param body body dto.CreateRecordsRequest true "创建请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/records [post]
func (ctrl *RecordController) Create(c *gin.Context) {
	var req dto.CreateRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		respFail(c, http.StatusBadRequest, "records 不能为空")
		return
	}

	records := make([]feishu.RecordReq, 0, len(req.Records))
	for _, fields := range req.Records {
		records = append(records, feishu.RecordReq{Fields: fields})
	}

	created, err := ctrl.bitableService.BatchCreateRecords(c.Request.Context(), records)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, gin.H{"created": len(created), "records": created})
}

// Update 更新记录
// @Summary 更新记录的指定字段
// @Tags Record
// @Accept json
// @Param record_id path string true "记录 ID"
// @Param body body dto.UpdateRecordRequest true "更新内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/records/{record_id} [put]
func (ctrl *RecordController) Update(c *gin.Context) {
	recordID := c.Param("record_id")

	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := ctrl.bitableService.UpdateRecord(c.Request.Context(), recordID, req.Fields); err != nil {
		respError(c, err)
		return
	}
	respOK(c, gin.H{"record_id": recordID})
}

// Delete 删除记录
// @Summary 按 ID 删除记录
// @Tags Record
// @Param record_id path string true "记录 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/records/{record_id} [delete]
func (ctrl *RecordController) Delete(c *gin.Context) {
	recordID := c.Param("record_id")

	if err := ctrl.bitableService.DeleteRecord(c.Request.Context(), recordID); err != nil {
		respError(c, err)
		return
	}
	respOK(c, gin.H{"record_id": recordID})
}
