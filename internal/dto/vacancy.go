package dto

import "time"

// ── 职位模块 DTO ──

// VacancyItem 职责/要求/条件条目
type VacancyItem struct {
	Text      string `json:"text"       binding:"required"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// CreateVacancyRequest 创建职位
// 条目字段缺省或为 null 时不处理，空数组表示清空
type CreateVacancyRequest struct {
	Name             string         `json:"name"             binding:"required,max=255"`
	DepartmentID     uint           `json:"department_id"    binding:"required"`
	Status           *string        `json:"status"           binding:"omitempty,oneof=active inactive draft"`
	Responsibilities *[]VacancyItem `json:"responsibilities" binding:"omitempty,dive"`
	Requirements     *[]VacancyItem `json:"requirements"     binding:"omitempty,dive"`
	Conditions       *[]VacancyItem `json:"conditions"       binding:"omitempty,dive"`
}

// UpdateVacancyRequest 更新职位，未提供的字段保持不变
type UpdateVacancyRequest struct {
	Name             *string        `json:"name"             binding:"omitempty,min=1,max=255"`
	DepartmentID     *uint          `json:"department_id"    binding:"omitempty,min=1"`
	Status           *string        `json:"status"           binding:"omitempty,oneof=active inactive draft"`
	Responsibilities *[]VacancyItem `json:"responsibilities" binding:"omitempty,dive"`
	Requirements     *[]VacancyItem `json:"requirements"     binding:"omitempty,dive"`
	Conditions       *[]VacancyItem `json:"conditions"       binding:"omitempty,dive"`
}

// VacancyItemResponse 条目响应
type VacancyItemResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	SortOrder int    `json:"sort_order"`
}

// VacancyResponse 职位详情（条目按 sort_order 升序）
type VacancyResponse struct {
	ID               uint                  `json:"id"`
	Name             string                `json:"name"`
	DepartmentID     uint                  `json:"department_id"`
	Status           string                `json:"status"`
	Department       *DepartmentResponse   `json:"department"`
	Responsibilities []VacancyItemResponse `json:"responsibilities"`
	Requirements     []VacancyItemResponse `json:"requirements"`
	Conditions       []VacancyItemResponse `json:"conditions"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}
