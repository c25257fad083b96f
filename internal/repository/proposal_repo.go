package repository

import (
	"context"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
)

// ProposalRepository 商务提案数据访问接口
type ProposalRepository interface {
	Create(ctx context.Context, p *model.Proposal) error
	GetByID(ctx context.Context, id uint) (*model.Proposal, error)
	List(ctx context.Context) ([]model.Proposal, error)
	UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus) error
	Delete(ctx context.Context, id uint) error
}

type proposalRepo struct {
	db *gorm.DB
}

// NewProposalRepo 创建 ProposalRepository 实例
func NewProposalRepo(db *gorm.DB) ProposalRepository {
	return &proposalRepo{db: db}
}

func (r *proposalRepo) Create(ctx context.Context, p *model.Proposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proposalRepo) GetByID(ctx context.Context, id uint) (*model.Proposal, error) {
	var p model.Proposal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepo) List(ctx context.Context) ([]model.Proposal, error) {
	var list []model.Proposal
	err := r.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *proposalRepo) UpdateStatus(ctx context.Context, id uint, status model.ReviewStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *proposalRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Proposal{}, id).Error
}
