package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recruit-hub/backend/internal/model"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Role, error)
	GetByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	// EnsureExists 按名称插入缺失的角色，已存在的不变
	EnsureExists(ctx context.Context, names ...model.RoleName) error
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) EnsureExists(ctx context.Context, names ...model.RoleName) error {
	if len(names) == 0 {
		return nil
	}
	roles := make([]model.Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, model.Role{Name: n})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&roles).Error
}
