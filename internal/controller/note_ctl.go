package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"xhs_feishu_ops_v1/internal/api/dto"
	"xhs_feishu_ops_v1/internal/model"
	"xhs_feishu_ops_v1/internal/repository"
	"xhs_feishu_ops_v1/internal/service"
)

// ==================== 控制器 ====================

// NoteController 本地工作清单 + 改写/发布控制器
type NoteController struct {
	noteRepo       repository.NoteRepository
	rewriteService *service.RewriteService
}

func NewNoteController(noteRepo repository.NoteRepository, rewriteService *service.RewriteService) *NoteController {
	return &NoteController{noteRepo: noteRepo, rewriteService: rewriteService}
}

// ==================== 清单 CRUD ====================

// List 清单分页查询
// @Summary 查询本地笔记清单
// @Tags Note
// @Param status query string false "状态过滤 pending/extracting/done/failed"
// @Param limit query int false "单页条数"
// @Param offset query int false "偏移量"
// @Success 200 {object} dto.NoteListResponse
// @Router /api/notes [get]
func (ctrl *NoteController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notes, total, err := ctrl.noteRepo.List(c.Request.Context(), repository.NoteFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respFail(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}
	respOK(c, dto.NoteListResponse{Total: total, Items: notes})
}

// Get 清单单条查询
// @Summary 按 ID 获取本地笔记
// @Tags Note
// @Param id path int true "笔记 ID"
// @Success 200 {object} model.Note
// @Router /api/notes/{id} [get]
func (ctrl *NoteController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respFail(c, http.StatusBadRequest, "无效的笔记 ID")
		return
	}

	note, err := ctrl.noteRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respFail(c, http.StatusNotFound, "笔记不存在")
			return
		}
		respFail(c, http.StatusInternalServerError, "查询失败: "+err.Error())
		return
	}
	respOK(c, note)
}

// Create 新建清单笔记
// @Summary 新建本地笔记
// @Tags Note
// @Accept json
// @Param body body dto.CreateNoteRequest true "创建请求"
// @Success 200 {object} model.Note
// @Router /api/notes [post]
func (ctrl *NoteController) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	note := &model.Note{
		Title:     req.Title,
		Content:   req.Content,
		SourceURL: req.SourceURL,
		Tags:      req.Tags,
		Images:    req.Images,
		Status:    model.NoteStatusPending,
	}
	if err := ctrl.noteRepo.Create(c.Request.Context(), note); err != nil {
		respFail(c, http.StatusInternalServerError, "创建失败: "+err.Error())
		return
	}
	respOK(c, note)
}

// Update 更新清单笔记
// @Summary 更新本地笔记 (缺省字段不更新)
// @Tags Note
// @Accept json
// @Param id path int true "笔记 ID"
// @Param body body dto.UpdateNoteRequest true "更新内容"
// @Success 200 {object} map[string]interface{}
// @Router /api/notes/{id} [put]
func (ctrl *NoteController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respFail(c, http.StatusBadRequest, "无效的笔记 ID")
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Tags != nil {
		fields["tags"] = model.StringSlice(*req.Tags)
	}
	if req.Images != nil {
		fields["images"] = model.StringSlice(*req.Images)
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		respFail(c, http.StatusBadRequest, "没有需要更新的字段")
		return
	}

	if err := ctrl.noteRepo.UpdateFields(c.Request.Context(), id, fields); err != nil {
		respFail(c, http.StatusInternalServerError, "更新失败: "+err.Error())
		return
	}
	respOK(c, gin.H{"id": id})
}

// Delete 删除清单笔记
// @Summary 删除本地笔记
// @Tags Note
// @Param id path int true "笔记 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/notes/{id} [delete]
func (ctrl *NoteController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respFail(c, http.StatusBadRequest, "无效的笔记 ID")
		return
	}

	if err := ctrl.noteRepo.Delete(c.Request.Context(), id); err != nil {
		respFail(c, http.StatusInternalServerError, "删除失败: "+err.Error())
		return
	}
	respOK(c, gin.H{"id": id})
}

// ==================== 改写 / 发布 ====================

// Rewrite 改写笔记
// @Summary AI 改写笔记，返回草稿 (不落库)
// @Tags Note
// @Accept json
// @Param body body dto.RewriteRequest true "改写请求"
// @Success 200 {object} model.NoteDraft
// @Router /api/notes/rewrite [post]
func (ctrl *NoteController) Rewrite(c *gin.Context) {
	var req dto.RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	if req.RecordID == "" && req.Content == "" {
		respFail(c, http.StatusBadRequest, "record_id 与 content 至少提供一个")
		return
	}

	draft, err := ctrl.rewriteService.Rewrite(c.Request.Context(), &req)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, draft)
}

// Publish 发布簿记
// @Summary 定稿发布：本地簿记并回写表格状态
// @Tags Note
// @Accept json
// @Param body body dto.PublishRequest true "发布请求"
// @Success 200 {object} model.Note
// @Router /api/notes/publish [post]
func (ctrl *NoteController) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respFail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	note, err := ctrl.rewriteService.Publish(c.Request.Context(), &req)
	if err != nil {
		respError(c, err)
		return
	}
	respOK(c, note)
}
