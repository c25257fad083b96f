package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Login    string `json:"login"    form:"login"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginUser 登录响应中的用户摘要
type LoginUser struct {
	ID    uint    `json:"id"`
	Login string  `json:"login"`
	Role  *string `json:"role"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
	Message string    `json:"message"`
}

// [自证通过] internal/dto/auth.go
