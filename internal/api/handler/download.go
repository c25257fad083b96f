package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-hub/backend/internal/service"
)

// contentDisposition 附件下载头；非 ASCII 文件名通过 filename* 传递
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(name))
}

// sendDownload 以二进制流返回存储对象
func sendDownload(c *gin.Context, d *service.Download) {
	defer d.Body.Close()

	c.DataFromReader(http.StatusOK, d.Size, "application/octet-stream", d.Body, map[string]string{
		"Content-Disposition": contentDisposition(d.Name),
	})
}
