package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"recruit-hub/backend/internal/dto"
)

// ── 测试辅助 ──

func setupTestDepartmentService() (DepartmentService, *mockDeptRepo) {
	repo, mocks := newMockRepository()
	return NewDepartmentService(repo, zap.NewNop()), mocks.depts
}

// ── Create 测试 ──

func TestDepartmentService_Create_Success(t *testing.T) {
	svc, _ := setupTestDepartmentService()

	result, err := svc.Create(context.Background(), &dto.DepartmentRequest{Name: "Маркетинг"})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "Маркетинг" || result.ID == 0 {
		t.Errorf("返回不符: %+v", result)
	}
}

func TestDepartmentService_Create_NameTaken(t *testing.T) {
	svc, _ := setupTestDepartmentService()

	// "Разработка" 已在 mockDeptRepo 初始化时存在
	_, err := svc.Create(context.Background(), &dto.DepartmentRequest{Name: "Разработка"})
	if fields := fieldsOf(t, err); len(fields["name"]) == 0 {
		t.Errorf("期望 name 字段错误，实际: %v", fields)
	}
}

// ── Update 测试 ──

func TestDepartmentService_Update(t *testing.T) {
	svc, _ := setupTestDepartmentService()
	ctx := context.Background()

	// 改为自身名称不算冲突
	if _, err := svc.Update(ctx, 1, &dto.DepartmentRequest{Name: "Разработка"}); err != nil {
		t.Fatalf("Update 为原名应成功: %v", err)
	}
	updated, err := svc.Update(ctx, 1, &dto.DepartmentRequest{Name: "R&D"})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != "R&D" {
		t.Errorf("期望 Name=R&D，实际=%s", updated.Name)
	}
	if _, err := svc.Update(ctx, 99, &dto.DepartmentRequest{Name: "x"}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestDepartmentService_Delete_InUse(t *testing.T) {
	svc, deptRepo := setupTestDepartmentService()
	deptRepo.vacancies[1] = 3

	err := svc.Delete(context.Background(), 1)
	var inUse *DepartmentInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("期望 DepartmentInUseError，实际: %v", err)
	}
	want := "Нельзя удалить отдел «Разработка» — он используется в 3 вакансиях."
	if inUse.Error() != want {
		t.Errorf("期望消息 %q，实际 %q", want, inUse.Error())
	}
	if _, ok := deptRepo.departments[1]; !ok {
		t.Error("被引用的部门不应被删除")
	}
}

func TestDepartmentService_Delete_Success(t *testing.T) {
	svc, deptRepo := setupTestDepartmentService()

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := deptRepo.departments[1]; ok {
		t.Error("部门应已删除")
	}
	list, _ := svc.List(context.Background())
	if len(list) != 0 {
		t.Errorf("期望空列表，实际=%d", len(list))
	}
}
