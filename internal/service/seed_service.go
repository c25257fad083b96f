package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recruit-hub/backend/config"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// SeedService 启动时的基础数据初始化
type SeedService interface {
	// Run 确保固定角色存在；用户表为空且配置了初始管理员时创建管理员
	Run(ctx context.Context) error
}

type seedService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SeedService {
	return &seedService{cfg: cfg, repo: repo, logger: logger}
}

func (s *seedService) Run(ctx context.Context) error {
	if err := s.repo.Role.EnsureExists(ctx, model.RoleAdmin, model.RoleManager); err != nil {
		s.logger.Error("初始化角色失败", zap.Error(err))
		return err
	}

	login, password := s.cfg.Seed.AdminLogin, s.cfg.Seed.AdminPassword
	if login == "" || password == "" {
		return nil
	}

	count, err := s.repo.User.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	role, err := s.repo.Role.GetByName(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	cost := s.cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	admin := &model.User{Login: login, PasswordHash: string(hash), RoleID: role.ID}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		s.logger.Error("创建初始管理员失败", zap.Error(err))
		return err
	}

	s.logger.Info("已创建初始管理员", zap.String("login", login))
	return nil
}
