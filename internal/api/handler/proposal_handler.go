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

// ProposalHandler 商务提案 HTTP 处理器
type ProposalHandler struct {
	proposalSvc service.ProposalService
	logger      *zap.Logger
}

// NewProposalHandler 创建 ProposalHandler
func NewProposalHandler(proposalSvc service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{proposalSvc: proposalSvc, logger: logger}
}

// Create 公开提交提案（附件可选）
// POST /api/proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	var req dto.CreateProposalRequest
	if !bindAny(c, &req) {
		return
	}

	var attachment *storage.Upload
	if req.Attachment != nil {
		attachment = storage.FromFileHeader(req.Attachment)
	}

	p, err := h.proposalSvc.Create(c.Request.Context(), &req, attachment)
	if err != nil {
		h.handleProposalError(c, err)
		return
	}
	response.Created(c, p)
}

// List 提案列表
// GET /api/proposals
func (h *ProposalHandler) List(c *gin.Context) {
	list, err := h.proposalSvc.List(c.Request.Context())
	if err != nil {
		h.handleProposalError(c, err)
		return
	}
	response.OK(c, list)
}

// Get 提案详情
// GET /api/proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Proposal not found")
	if !ok {
		return
	}
	p, err := h.proposalSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleProposalError(c, err)
		return
	}
	response.OK(c, p)
}

// UpdateStatus 修改处理状态
// PATCH /api/proposals/:id/status
func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "Proposal not found")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.proposalSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleProposalError(c, err)
		return
	}
	response.OK(c, p)
}

// Download 下载提案附件
// GET /api/proposals/:id/download
func (h *ProposalHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id", "Proposal not found")
	if !ok {
		return
	}
	d, err := h.proposalSvc.Download(c.Request.Context(), id)
	if err != nil {
		if pkgerrors.IsFileNotFound(err) {
			response.NotFound(c, "File not found")
			return
		}
		h.handleProposalError(c, err)
		return
	}
	sendDownload(c, d)
}

// Delete 删除提案及其附件
// DELETE /api/proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Proposal not found")
	if !ok {
		return
	}
	if err := h.proposalSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProposalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ProposalHandler) handleProposalError(c *gin.Context, err error) {
	if writeValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProposalNotFound):
		response.NotFound(c, "Proposal not found")
	default:
		h.logger.Error("提案请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}
