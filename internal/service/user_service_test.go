package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"recruit-hub/backend/internal/dto"
	"recruit-hub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestUserService(t *testing.T) (UserService, *mockRepos, *model.User) {
	repo, mocks := newMockRepository()
	admin := &model.User{Login: "admin", PasswordHash: mustHash(t, "secret123"), RoleID: 1}
	if err := mocks.users.Create(context.Background(), admin); err != nil {
		t.Fatalf("创建管理员失败: %v", err)
	}
	admin.Role = mocks.roles.roles[1]
	svc := NewUserService(repo, bcrypt.MinCost, zap.NewNop())
	return svc, mocks, admin
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	return ve.Fields
}

// ── 查询 ──

func TestUserService_Me(t *testing.T) {
	svc, _, admin := setupTestUserService(t)

	me := svc.Me(admin)
	if me.ID != admin.ID || me.Login != "admin" || me.RoleID != 1 {
		t.Errorf("Me 返回不符: %+v", me)
	}
	if me.Role == nil || *me.Role != "admin" {
		t.Errorf("期望角色 admin，实际=%v", me.Role)
	}
}

func TestUserService_List(t *testing.T) {
	svc, _, _ := setupTestUserService(t)
	ctx := context.Background()
	_, _ = svc.Create(ctx, &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 个用户，实际=%d", len(list))
	}
	if list[1].Login != "hr" || list[1].Role != "manager" {
		t.Errorf("列表项不符: %+v", list[1])
	}
}

// ── Create ──

func TestUserService_Create_Success(t *testing.T) {
	svc, mocks, _ := setupTestUserService(t)

	brief, err := svc.Create(context.Background(), &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	stored := mocks.users.users[brief.ID]
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")) != nil {
		t.Error("存储的哈希应与密码匹配")
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc, _, _ := setupTestUserService(t)

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{Login: "admin", Password: "secret123", RoleID: 99})
	fields := fieldsOf(t, err)
	if len(fields["login"]) == 0 || fields["login"][0] != "The login has already been taken." {
		t.Errorf("期望 login 字段错误，实际: %v", fields)
	}
	if len(fields["role_id"]) == 0 {
		t.Errorf("期望 role_id 字段错误，实际: %v", fields)
	}
}

// ── 角色 / 编辑 ──

func TestUserService_UpdateRole(t *testing.T) {
	svc, _, _ := setupTestUserService(t)
	ctx := context.Background()
	brief, _ := svc.Create(ctx, &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})

	updated, err := svc.UpdateRole(ctx, brief.ID, &dto.UpdateRoleRequest{RoleID: 1})
	if err != nil {
		t.Fatalf("UpdateRole 应成功: %v", err)
	}
	if updated.RoleID != 1 {
		t.Errorf("期望 RoleID=1，实际=%d", updated.RoleID)
	}

	if _, err := svc.UpdateRole(ctx, 404, &dto.UpdateRoleRequest{RoleID: 1}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_Update_PasswordNeedsConfirmation(t *testing.T) {
	svc, mocks, _ := setupTestUserService(t)
	ctx := context.Background()
	brief, _ := svc.Create(ctx, &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})
	newPassword := "another1"

	_, err := svc.Update(ctx, brief.ID, &dto.UpdateUserRequest{Password: &newPassword})
	if fields := fieldsOf(t, err); len(fields["confirm_password_change"]) == 0 {
		t.Errorf("期望 confirm_password_change 字段错误，实际: %v", fields)
	}

	_, err = svc.Update(ctx, brief.ID, &dto.UpdateUserRequest{Password: &newPassword, ConfirmPasswordChange: true})
	if err != nil {
		t.Fatalf("确认后 Update 应成功: %v", err)
	}
	hash := mocks.users.users[brief.ID].PasswordHash
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(newPassword)) != nil {
		t.Error("密码应已更新")
	}
}

// ── 密码 ──

func TestUserService_ChangePassword(t *testing.T) {
	svc, mocks, admin := setupTestUserService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, admin, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass1", NewPasswordConfirmation: "newpass1",
	})
	fields := fieldsOf(t, err)
	if len(fields["old_password"]) == 0 || fields["old_password"][0] != "The provided password is incorrect." {
		t.Errorf("期望 old_password 字段错误，实际: %v", fields)
	}

	err = svc.ChangePassword(ctx, admin, &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newpass1", NewPasswordConfirmation: "mismatch",
	})
	if fields := fieldsOf(t, err); len(fields["new_password"]) == 0 {
		t.Errorf("期望 new_password 字段错误，实际: %v", fields)
	}

	err = svc.ChangePassword(ctx, admin, &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newpass1", NewPasswordConfirmation: "newpass1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	hash := mocks.users.users[admin.ID].PasswordHash
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpass1")) != nil {
		t.Error("密码应已更新")
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _, _ := setupTestUserService(t)
	ctx := context.Background()
	brief, _ := svc.Create(ctx, &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})

	resp, err := svc.ResetPassword(ctx, brief.ID, &dto.ResetPasswordRequest{NewPassword: "resetme1"})
	if err != nil {
		t.Fatalf("ResetPassword 应成功: %v", err)
	}
	if resp.Message != "Password reset successfully for user: hr" || resp.UserID != brief.ID {
		t.Errorf("返回不符: %+v", resp)
	}
}

// ── Delete ──

func TestUserService_Delete_Self(t *testing.T) {
	svc, _, admin := setupTestUserService(t)

	if _, err := svc.Delete(context.Background(), admin, admin.ID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("期望 ErrUserSelfDelete，实际: %v", err)
	}
}

func TestUserService_Delete_RemovesTokens(t *testing.T) {
	svc, mocks, admin := setupTestUserService(t)
	ctx := context.Background()
	brief, _ := svc.Create(ctx, &dto.CreateUserRequest{Login: "hr", Password: "secret123", RoleID: 2})
	_ = mocks.tokens.Create(ctx, &model.APIToken{UserID: brief.ID, Token: "hr-token"})

	resp, err := svc.Delete(ctx, admin, brief.ID)
	if err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if resp.Message != "User deleted" || resp.ID != brief.ID {
		t.Errorf("返回不符: %+v", resp)
	}
	if _, ok := mocks.users.users[brief.ID]; ok {
		t.Error("用户应已删除")
	}
	if len(mocks.tokens.tokens) != 0 {
		t.Error("用户令牌应一并删除")
	}
	if _, err := svc.Delete(ctx, admin, brief.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
