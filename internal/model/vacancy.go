package model

// VacancyStatus 职位状态
type VacancyStatus string

const (
	VacancyActive   VacancyStatus = "active"
	VacancyInactive VacancyStatus = "inactive"
	VacancyDraft    VacancyStatus = "draft"
)

// Valid 是否为合法状态
func (s VacancyStatus) Valid() bool {
	switch s {
	case VacancyActive, VacancyInactive, VacancyDraft:
		return true
	}
	return false
}

// Vacancy 职位表，对应 vacancies
type Vacancy struct {
	ID           uint          `gorm:"primaryKey"                                   json:"id"`
	Name         string        `gorm:"type:varchar(255);not null"                   json:"name"`
	DepartmentID uint          `gorm:"not null;index"                               json:"department_id"`
	Status       VacancyStatus `gorm:"type:varchar(20);not null;default:'active'"   json:"status"`
	BaseModel

	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT" json:"department,omitempty"`
}

// TableName 指定表名
func (Vacancy) TableName() string { return "vacancies" }

// ── 文本条目池（按 text 去重，多个职位共享） ──

// ResponsibilityItem 职责条目，对应 responsibility_items
type ResponsibilityItem struct {
	ID   uint   `gorm:"primaryKey"                json:"id"`
	Text string `gorm:"not null;uniqueIndex"      json:"text"`
	BaseModel
}

// TableName 指定表名
func (ResponsibilityItem) TableName() string { return "responsibility_items" }

// RequirementItem 要求条目，对应 requirement_items
type RequirementItem struct {
	ID   uint   `gorm:"primaryKey"           json:"id"`
	Text string `gorm:"not null;uniqueIndex" json:"text"`
	BaseModel
}

// TableName 指定表名
func (RequirementItem) TableName() string { return "requirement_items" }

// ConditionItem 条件条目，对应 condition_items
type ConditionItem struct {
	ID   uint   `gorm:"primaryKey"           json:"id"`
	Text string `gorm:"not null;uniqueIndex" json:"text"`
	BaseModel
}

// TableName 指定表名
func (ConditionItem) TableName() string { return "condition_items" }

// ── 职位 ↔ 条目 关联表（边上携带 sort_order） ──

// VacancyResponsibility 对应 vacancy_responsibility
type VacancyResponsibility struct {
	VacancyID            uint `gorm:"primaryKey;autoIncrement:false"`
	ResponsibilityItemID uint `gorm:"primaryKey;autoIncrement:false"`
	SortOrder            int  `gorm:"not null;default:0"`
}

// TableName 指定表名
func (VacancyResponsibility) TableName() string { return "vacancy_responsibility" }

// VacancyRequirement 对应 vacancy_requirement
type VacancyRequirement struct {
	VacancyID         uint `gorm:"primaryKey;autoIncrement:false"`
	RequirementItemID uint `gorm:"primaryKey;autoIncrement:false"`
	SortOrder         int  `gorm:"not null;default:0"`
}

// TableName 指定表名
func (VacancyRequirement) TableName() string { return "vacancy_requirement" }

// VacancyCondition 对应 vacancy_condition
type VacancyCondition struct {
	VacancyID       uint `gorm:"primaryKey;autoIncrement:false"`
	ConditionItemID uint `gorm:"primaryKey;autoIncrement:false"`
	SortOrder       int  `gorm:"not null;default:0"`
}

// TableName 指定表名
func (VacancyCondition) TableName() string { return "vacancy_condition" }
