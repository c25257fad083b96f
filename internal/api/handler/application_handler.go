package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/service"
	pkgerrors "recruit-hub/backend/pkg/errors"
	"recruit-hub/backend/pkg/response"
	"recruit-hub/backend/pkg/storage"
)

// ApplicationHandler 求职申请 HTTP 处理器
type ApplicationHandler struct {
	appSvc service.ApplicationService
	logger *zap.Logger
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc, logger: logger}
}

// Create 公开提交申请（JSON 或 multipart，简历可选）
// POST /api/applications/:vacancyId
func (h *ApplicationHandler) Create(c *gin.Context) {
	vacancyID, ok := parseID(c, "vacancyId", "Vacancy not found")
	if !ok {
		return
	}
	var req dto.CreateApplicationRequest
	if !bindAny(c, &req) {
		return
	}

	var resume *storage.Upload
	if req.Resume != nil {
		resume = storage.FromFileHeader(req.Resume)
	}

	app, err := h.appSvc.Create(c.Request.Context(), vacancyID, &req, resume)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.Created(c, app)
}

// List 申请列表（含职位）
// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	list, err := h.appSvc.List(c.Request.Context())
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 申请详情
// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Application not found")
	if !ok {
		return
	}
	app, err := h.appSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OK(c, app)
}

// UpdateStatus 修改处理状态
// PATCH /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "Application not found")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.appSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.OK(c, app)
}

// Download 下载简历
// GET /api/applications/download/:filename
func (h *ApplicationHandler) Download(c *gin.Context) {
	d, err := h.appSvc.Download(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) || pkgerrors.IsFileNotFound(err) {
			response.NotFound(c, "File not found")
			return
		}
		h.handleApplicationError(c, err)
		return
	}
	sendDownload(c, d)
}

// Delete 删除申请及其简历
// DELETE /api/applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Application not found")
	if !ok {
		return
	}
	if err := h.appSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleApplicationError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	if writeValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrVacancyNotFound):
		response.NotFound(c, "Vacancy not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, "Application not found")
	default:
		h.logger.Error("申请请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}
