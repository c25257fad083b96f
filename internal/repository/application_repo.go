package repository

import (
	"context"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
)

// ApplicationRepository 求职申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id uint) (*model.Application, error)
	// GetByResume 按存储相对路径查询
	GetByResume(ctx context.Context, resume string) (*model.Application, error)
	List(ctx context.Context) ([]model.Application, error)
	ListByVacancy(ctx context.Context, vacancyID uint) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus) error
	Delete(ctx context.Context, id uint) error
	DeleteByVacancy(ctx context.Context, vacancyID uint) error
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Omit("Vacancy").Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Vacancy").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByResume(ctx context.Context, resume string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("resume = ?", resume).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) List(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Vacancy").
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListByVacancy(ctx context.Context, vacancyID uint) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("vacancy_id = ?", vacancyID).
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Application{}, id).Error
}

func (r *applicationRepo) DeleteByVacancy(ctx context.Context, vacancyID uint) error {
	return r.db.WithContext(ctx).
		Where("vacancy_id = ?", vacancyID).
		Delete(&model.Application{}).Error
}
