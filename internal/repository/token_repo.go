package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
)

// TokenRepository 访问令牌数据访问接口
type TokenRepository interface {
	Create(ctx context.Context, token *model.APIToken) error
	// FindActiveByUser 返回用户在 now 时刻仍有效的第一条令牌
	FindActiveByUser(ctx context.Context, userID uint, now time.Time) (*model.APIToken, error)
	// GetByValue 按令牌值查询，并预加载 User.Role
	GetByValue(ctx context.Context, value string) (*model.APIToken, error)
	// DeleteByID 返回实际删除的行数
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type tokenRepo struct {
	db *gorm.DB
}

// NewTokenRepo 创建 TokenRepository 实例
func NewTokenRepo(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Create(ctx context.Context, token *model.APIToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepo) FindActiveByUser(ctx context.Context, userID uint, now time.Time) (*model.APIToken, error) {
	var token model.APIToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("id ASC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepo) GetByValue(ctx context.Context, value string) (*model.APIToken, error) {
	var token model.APIToken
	err := r.db.WithContext(ctx).
		Preload("User.Role").
		Where("token = ?", value).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepo) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.APIToken{}, id)
	return res.RowsAffected, res.Error
}

func (r *tokenRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.APIToken{}).Error
}
