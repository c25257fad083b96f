package dto

// ── 部门模块 DTO ──

// DepartmentRequest 创建 / 更新部门请求
type DepartmentRequest struct {
	Name string `json:"name" binding:"required,max=20"`
}

// DepartmentResponse 部门响应
type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
