package service

import (
	"context"
	"io"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
	pkgerrors "recruit-hub/backend/pkg/errors"
	"recruit-hub/backend/pkg/storage"
)

func setupTestApplicationService(t *testing.T) (ApplicationService, *testEnv, *model.Vacancy) {
	env := newTestEnv(t)
	dept := env.department(t, "Dev")
	v := &model.Vacancy{Name: "Go developer", DepartmentID: dept.ID, Status: model.VacancyActive}
	require.NoError(t, env.db.Create(v).Error)
	return NewApplicationService(env.repo, env.files, zap.NewNop()), env, v
}

func applicationRequest() *dto.CreateApplicationRequest {
	phone := "+7 900 000-00-00"
	return &dto.CreateApplicationRequest{
		Name:             "Anna",
		Email:            "anna@example.com",
		Phone:            &phone,
		PrivacyAgreement: true,
	}
}

func TestApplicationService_Create_WithResume(t *testing.T) {
	svc, env, vacancy := setupTestApplicationService(t)
	ctx := context.Background()

	app, err := svc.Create(ctx, vacancy.ID, applicationRequest(), storage.FromBytes("Anna CV.docx", docxBytes(t)))
	require.NoError(t, err)

	assert.Equal(t, model.StatusNew, app.Status)
	require.NotNil(t, app.Resume)
	assert.Equal(t, storage.BucketResumes, path.Dir(*app.Resume))
	assert.Equal(t, ".docx", path.Ext(*app.Resume))
	assert.Equal(t, "Anna CV.docx", *app.ResumeName)
	assert.True(t, env.exists(t, *app.Resume))
}

func TestApplicationService_Create_WithoutResume(t *testing.T) {
	svc, _, vacancy := setupTestApplicationService(t)

	app, err := svc.Create(context.Background(), vacancy.ID, applicationRequest(), nil)
	require.NoError(t, err)
	assert.Nil(t, app.Resume)
	assert.Nil(t, app.ResumeName)
}

func TestApplicationService_Create_RejectsResume(t *testing.T) {
	svc, env, vacancy := setupTestApplicationService(t)

	_, err := svc.Create(context.Background(), vacancy.ID, applicationRequest(), storage.FromBytes("cv.txt", []byte("hello")))
	ve, ok := AsValidationError(err)
	require.True(t, ok, "期望 ValidationError，实际: %v", err)
	assert.Equal(t, []string{"The file must be a file of type: doc, docx, pdf."}, ve.Fields["resume"])

	var count int64
	env.db.Model(&model.Application{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplicationService_Create_UnknownVacancy(t *testing.T) {
	svc, _, _ := setupTestApplicationService(t)

	_, err := svc.Create(context.Background(), 404, applicationRequest(), nil)
	assert.ErrorIs(t, err, ErrVacancyNotFound)
}

func TestApplicationService_Download(t *testing.T) {
	svc, env, vacancy := setupTestApplicationService(t)
	ctx := context.Background()
	data := docxBytes(t)

	app, err := svc.Create(ctx, vacancy.ID, applicationRequest(), storage.FromBytes("cv.docx", data))
	require.NoError(t, err)

	dl, err := svc.Download(ctx, path.Base(*app.Resume))
	require.NoError(t, err)
	got, err := io.ReadAll(dl.Body)
	dl.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "cv.docx", dl.Name)

	_, err = svc.Download(ctx, "missing.pdf")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	_, err = svc.Download(ctx, "../"+path.Base(*app.Resume))
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	// 行存在但文件丢失
	require.NoError(t, env.disk.Delete(ctx, *app.Resume))
	_, err = svc.Download(ctx, path.Base(*app.Resume))
	assert.True(t, pkgerrors.IsFileNotFound(err), "期望 file not found，实际: %v", err)
}

func TestApplicationService_StatusListDelete(t *testing.T) {
	svc, env, vacancy := setupTestApplicationService(t)
	ctx := context.Background()

	app, err := svc.Create(ctx, vacancy.ID, applicationRequest(), storage.FromBytes("cv.docx", docxBytes(t)))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, app.ID, "принято")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)

	_, err = svc.UpdateStatus(ctx, app.ID, "done")
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Vacancy)
	assert.Equal(t, "Go developer", list[0].Vacancy.Name)
	assert.Equal(t, model.StatusAccepted, list[0].Status)

	require.NoError(t, svc.Delete(ctx, app.ID))
	assert.False(t, env.exists(t, *app.Resume))
	_, err = svc.Get(ctx, app.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
