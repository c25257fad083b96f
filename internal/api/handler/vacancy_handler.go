package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/response"
)

// VacancyHandler 职位模块 HTTP 处理器
type VacancyHandler struct {
	vacancySvc service.VacancyService
	logger     *zap.Logger
}

// NewVacancyHandler 创建 VacancyHandler
func NewVacancyHandler(vacancySvc service.VacancyService, logger *zap.Logger) *VacancyHandler {
	return &VacancyHandler{vacancySvc: vacancySvc, logger: logger}
}

// ListActive 公开职位列表（仅 active）
// GET /api/vacancies
func (h *VacancyHandler) ListActive(c *gin.Context) {
	list, err := h.vacancySvc.ListActive(c.Request.Context())
	if err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.OK(c, list)
}

// CountActive active 职位数量
// GET /api/vacancies/count
func (h *VacancyHandler) CountActive(c *gin.Context) {
	n, err := h.vacancySvc.CountActive(c.Request.Context())
	if err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.OK(c, dto.CountResponse{Count: n})
}

// Get 职位详情
// GET /api/vacancies/:id
func (h *VacancyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Vacancy not found")
	if !ok {
		return
	}
	v, err := h.vacancySvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.OK(c, v)
}

// Create 创建职位
// POST /api/vacancies
func (h *VacancyHandler) Create(c *gin.Context) {
	var req dto.CreateVacancyRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.vacancySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.Created(c, v)
}

// Update 更新职位
// PUT/PATCH /api/vacancies/:id
func (h *VacancyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "Vacancy not found")
	if !ok {
		return
	}
	var req dto.UpdateVacancyRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.vacancySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.OK(c, v)
}

// Delete 删除职位及其申请
// DELETE /api/vacancies/:id
func (h *VacancyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Vacancy not found")
	if !ok {
		return
	}
	if err := h.vacancySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleVacancyError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *VacancyHandler) handleVacancyError(c *gin.Context, err error) {
	if writeValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrVacancyNotFound):
		response.NotFound(c, "Vacancy not found")
	default:
		h.logger.Error("职位请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}
