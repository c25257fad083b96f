package repository

import (
	"context"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
)

// VacancyRepository 职位数据访问接口
// 条目关联（职责/要求/条件）由 PivotRepository 维护
type VacancyRepository interface {
	Create(ctx context.Context, vacancy *model.Vacancy) error
	GetByID(ctx context.Context, id uint) (*model.Vacancy, error)
	// List status 为空时返回全部
	List(ctx context.Context, status model.VacancyStatus) ([]model.Vacancy, error)
	CountByStatus(ctx context.Context, status model.VacancyStatus) (int64, error)
	Update(ctx context.Context, vacancy *model.Vacancy) error
	Delete(ctx context.Context, id uint) error
}

type vacancyRepo struct {
	db *gorm.DB
}

// NewVacancyRepo 创建 VacancyRepository 实例
func NewVacancyRepo(db *gorm.DB) VacancyRepository {
	return &vacancyRepo{db: db}
}

func (r *vacancyRepo) Create(ctx context.Context, vacancy *model.Vacancy) error {
	return r.db.WithContext(ctx).Omit("Department").Create(vacancy).Error
}

func (r *vacancyRepo) GetByID(ctx context.Context, id uint) (*model.Vacancy, error) {
	var vacancy model.Vacancy
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&vacancy).Error
	if err != nil {
		return nil, err
	}
	return &vacancy, nil
}

func (r *vacancyRepo) List(ctx context.Context, status model.VacancyStatus) ([]model.Vacancy, error) {
	var vacancies []model.Vacancy
	db := r.db.WithContext(ctx).Preload("Department")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("id ASC").Find(&vacancies).Error
	return vacancies, err
}

func (r *vacancyRepo) CountByStatus(ctx context.Context, status model.VacancyStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vacancy{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *vacancyRepo) Update(ctx context.Context, vacancy *model.Vacancy) error {
	return r.db.WithContext(ctx).
		Model(vacancy).
		Omit("Department").
		Select("name", "department_id", "status", "updated_at").
		Updates(vacancy).Error
}

func (r *vacancyRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Vacancy{}, id).Error
}
