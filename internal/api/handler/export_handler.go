package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	logger    *zap.Logger
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger}
}

// ExportApplications 导出求职申请
// GET /api/applications/export?vacancy_id=xxx
func (h *ExportHandler) ExportApplications(c *gin.Context) {
	var vacancyID *uint
	if raw := c.Query("vacancy_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			response.ValidationFailed(c, map[string][]string{
				"vacancy_id": {"The vacancy id must be an integer."},
			})
			return
		}
		v := uint(id)
		vacancyID = &v
	}

	buf, filename, err := h.exportSvc.ExportApplications(c.Request.Context(), vacancyID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVacancyNotFound):
		response.NotFound(c, "Vacancy not found")
	case errors.Is(err, service.ErrExportGenerateFail):
		h.logger.Error("生成导出文件失败", zap.Error(err))
		response.InternalError(c)
	default:
		h.logger.Error("导出申请失败", zap.Error(err))
		response.InternalError(c)
	}
}
