package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建用户
type CreateUserRequest struct {
	Login    string `json:"login"    binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
	RoleID   uint   `json:"role_id"  binding:"required"`
}

// UpdateRoleRequest 修改用户角色
type UpdateRoleRequest struct {
	RoleID uint `json:"role_id" binding:"required"`
}

// UpdateUserRequest 管理员编辑用户；修改密码时必须勾选 confirm_password_change
type UpdateUserRequest struct {
	RoleID                *uint    `json:"role_id"                 binding:"omitempty,min=1"`
	Password              *string  `json:"password"                binding:"omitempty,min=6,max=255"`
	ConfirmPasswordChange Accepted `json:"confirm_password_change"`
}

// ChangePasswordRequest 修改本人密码
type ChangePasswordRequest struct {
	OldPassword             string `json:"old_password"              binding:"required"`
	NewPassword             string `json:"new_password"              binding:"required,min=6,max=255"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// ResetPasswordRequest 管理员重置密码
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}

// CurrentUserResponse GET /user
type CurrentUserResponse struct {
	ID     uint    `json:"id"`
	Login  string  `json:"login"`
	RoleID uint    `json:"role_id"`
	Role   *string `json:"role"`
}

// UserListItem 用户列表项
type UserListItem struct {
	ID    uint   `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

// UserBrief 创建/修改后的用户摘要
type UserBrief struct {
	ID     uint   `json:"id"`
	Login  string `json:"login"`
	RoleID uint   `json:"role_id"`
}

// ResetPasswordResponse 重置密码结果
type ResetPasswordResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

// DeleteUserResponse 删除用户结果
type DeleteUserResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}
