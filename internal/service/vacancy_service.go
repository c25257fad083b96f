package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// ── 职位模块业务错误 ──

var (
	ErrVacancyNotFound = errors.New("职位不存在")
)

// VacancyService 职位业务接口
type VacancyService interface {
	// ListActive 公开列表，仅 active 职位
	ListActive(ctx context.Context) ([]dto.VacancyResponse, error)
	CountActive(ctx context.Context) (int64, error)
	// Get 详情不限制状态
	Get(ctx context.Context, id uint) (*dto.VacancyResponse, error)
	Create(ctx context.Context, req *dto.CreateVacancyRequest) (*dto.VacancyResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateVacancyRequest) (*dto.VacancyResponse, error)
	// Delete 解除全部条目关联并删除其申请，简历文件尽力清理
	Delete(ctx context.Context, id uint) error
}

type vacancyService struct {
	repo   *repository.Repository
	files  *attachments
	logger *zap.Logger
}

// NewVacancyService 创建 VacancyService 实例
func NewVacancyService(repo *repository.Repository, files *attachments, logger *zap.Logger) VacancyService {
	return &vacancyService{repo: repo, files: files, logger: logger}
}

// vacancySections 三类条目池与请求/响应字段的对应关系
var vacancySections = []struct {
	field string
	pool  repository.Pool
}{
	{"responsibilities", repository.ResponsibilityPool},
	{"requirements", repository.RequirementPool},
	{"conditions", repository.ConditionPool},
}

// ────────────────────── 查询 ──────────────────────

func (s *vacancyService) ListActive(ctx context.Context) ([]dto.VacancyResponse, error) {
	vacancies, err := s.repo.Vacancy.List(ctx, model.VacancyActive)
	if err != nil {
		s.logger.Error("列出职位失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, s.repo, vacancies)
}

func (s *vacancyService) CountActive(ctx context.Context) (int64, error) {
	count, err := s.repo.Vacancy.CountByStatus(ctx, model.VacancyActive)
	if err != nil {
		s.logger.Error("统计职位失败", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *vacancyService) Get(ctx context.Context, id uint) (*dto.VacancyResponse, error) {
	vacancy, err := s.getVacancy(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	list, err := s.toResponses(ctx, s.repo, []model.Vacancy{*vacancy})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ────────────────────── Create ──────────────────────

func (s *vacancyService) Create(ctx context.Context, req *dto.CreateVacancyRequest) (*dto.VacancyResponse, error) {
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	vacancy := &model.Vacancy{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		Status:       model.VacancyActive,
	}
	if req.Status != nil {
		vacancy.Status = model.VacancyStatus(*req.Status)
	}
	sections := []*[]dto.VacancyItem{req.Responsibilities, req.Requirements, req.Conditions}

	var resp *dto.VacancyResponse
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Vacancy.Create(ctx, vacancy); err != nil {
			return err
		}
		if err := s.syncSections(ctx, txRepo, vacancy.ID, sections); err != nil {
			return err
		}
		created, err := s.getVacancy(ctx, txRepo, vacancy.ID)
		if err != nil {
			return err
		}
		list, err := s.toResponses(ctx, txRepo, []model.Vacancy{*created})
		if err != nil {
			return err
		}
		resp = &list[0]
		return nil
	})
	if err != nil {
		s.logger.Error("创建职位失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建职位", zap.Uint("vacancy_id", vacancy.ID), zap.String("name", vacancy.Name))
	return resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *vacancyService) Update(ctx context.Context, id uint, req *dto.UpdateVacancyRequest) (*dto.VacancyResponse, error) {
	vacancy, err := s.getVacancy(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if req.DepartmentID != nil {
		if err := s.checkDepartment(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		vacancy.DepartmentID = *req.DepartmentID
	}
	if req.Name != nil {
		vacancy.Name = *req.Name
	}
	if req.Status != nil {
		vacancy.Status = model.VacancyStatus(*req.Status)
	}
	vacancy.Department = nil

	sections := []*[]dto.VacancyItem{req.Responsibilities, req.Requirements, req.Conditions}

	var resp *dto.VacancyResponse
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Vacancy.Update(ctx, vacancy); err != nil {
			return err
		}
		if err := s.syncSections(ctx, txRepo, vacancy.ID, sections); err != nil {
			return err
		}
		updated, err := s.getVacancy(ctx, txRepo, vacancy.ID)
		if err != nil {
			return err
		}
		list, err := s.toResponses(ctx, txRepo, []model.Vacancy{*updated})
		if err != nil {
			return err
		}
		resp = &list[0]
		return nil
	})
	if err != nil {
		s.logger.Error("更新职位失败", zap.Uint("vacancy_id", id), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *vacancyService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getVacancy(ctx, s.repo, id); err != nil {
		return err
	}

	var resumes []string
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		for _, sec := range vacancySections {
			if err := txRepo.Pivot.DetachOwner(ctx, sec.pool, id); err != nil {
				return err
			}
		}
		apps, err := txRepo.Application.ListByVacancy(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range apps {
			if a.Resume != nil {
				resumes = append(resumes, *a.Resume)
			}
		}
		if err := txRepo.Application.DeleteByVacancy(ctx, id); err != nil {
			return err
		}
		return txRepo.Vacancy.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除职位失败", zap.Uint("vacancy_id", id), zap.Error(err))
		return err
	}

	s.files.remove(ctx, resumes...)
	s.logger.Info("删除职位", zap.Uint("vacancy_id", id), zap.Int("applications", len(resumes)))
	return nil
}

// ── 内部辅助方法 ──

func (s *vacancyService) getVacancy(ctx context.Context, repo *repository.Repository, id uint) (*model.Vacancy, error) {
	vacancy, err := repo.Vacancy.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVacancyNotFound
		}
		s.logger.Error("查询职位失败", zap.Uint("vacancy_id", id), zap.Error(err))
		return nil, err
	}
	return vacancy, nil
}

func (s *vacancyService) checkDepartment(ctx context.Context, departmentID uint) error {
	if _, err := s.repo.Department.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fieldError("department_id", "The selected department id is invalid.")
		}
		s.logger.Error("查询部门失败", zap.Uint("department_id", departmentID), zap.Error(err))
		return err
	}
	return nil
}

// syncSections sections 与 vacancySections 一一对应；nil 跳过，空数组清空关联
func (s *vacancyService) syncSections(ctx context.Context, repo *repository.Repository, vacancyID uint, sections []*[]dto.VacancyItem) error {
	for i, sec := range vacancySections {
		if sections[i] == nil {
			continue
		}
		edges := make([]repository.Edge, 0, len(*sections[i]))
		for _, item := range *sections[i] {
			itemID, err := repo.Pivot.Upsert(ctx, sec.pool, item.Text)
			if err != nil {
				return err
			}
			order := 0
			if item.SortOrder != nil {
				order = *item.SortOrder
			}
			edges = append(edges, repository.Edge{ItemID: itemID, SortOrder: order})
		}
		if err := repo.Pivot.Sync(ctx, sec.pool, vacancyID, edges); err != nil {
			return err
		}
	}
	return nil
}

func (s *vacancyService) toResponses(ctx context.Context, repo *repository.Repository, vacancies []model.Vacancy) ([]dto.VacancyResponse, error) {
	ids := make([]uint, 0, len(vacancies))
	for i := range vacancies {
		ids = append(ids, vacancies[i].ID)
	}

	items := make([]map[uint][]repository.PoolItem, len(vacancySections))
	for i, sec := range vacancySections {
		grouped, err := repo.Pivot.ListItems(ctx, sec.pool, ids)
		if err != nil {
			s.logger.Error("查询职位条目失败", zap.String("section", sec.field), zap.Error(err))
			return nil, err
		}
		items[i] = grouped
	}

	result := make([]dto.VacancyResponse, 0, len(vacancies))
	for i := range vacancies {
		v := &vacancies[i]
		resp := dto.VacancyResponse{
			ID:               v.ID,
			Name:             v.Name,
			DepartmentID:     v.DepartmentID,
			Status:           string(v.Status),
			Responsibilities: toItemResponses(items[0][v.ID]),
			Requirements:     toItemResponses(items[1][v.ID]),
			Conditions:       toItemResponses(items[2][v.ID]),
			CreatedAt:        v.CreatedAt,
			UpdatedAt:        v.UpdatedAt,
		}
		if v.Department != nil {
			resp.Department = toDepartmentResponse(v.Department)
		}
		result = append(result, resp)
	}
	return result, nil
}

func toItemResponses(items []repository.PoolItem) []dto.VacancyItemResponse {
	result := make([]dto.VacancyItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, dto.VacancyItemResponse{ID: it.ID, Text: it.Key, SortOrder: it.SortOrder})
	}
	return result
}

// [自证通过] internal/service/vacancy_service.go
