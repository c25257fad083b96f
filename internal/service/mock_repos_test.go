package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// ── Mock Repositories ──
// map 实现，覆盖不依赖条目池的模块（认证、用户、部门、提案）

// ── mockRoleRepo ──

type mockRoleRepo struct {
	roles map[uint]*model.Role
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: map[uint]*model.Role{
		1: {ID: 1, Name: model.RoleAdmin},
		2: {ID: 2, Name: model.RoleManager},
	}}
}

func (m *mockRoleRepo) GetByID(_ context.Context, id uint) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) GetByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var list []model.Role
	for _, r := range m.roles {
		list = append(list, *r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *mockRoleRepo) EnsureExists(_ context.Context, names ...model.RoleName) error {
	for _, n := range names {
		if _, err := m.GetByName(context.Background(), n); err == nil {
			continue
		}
		id := uint(len(m.roles) + 1)
		m.roles[id] = &model.Role{ID: id, Name: n}
	}
	return nil
}

// ── mockUserRepo ──

type mockUserRepo struct {
	users  map[uint]*model.User
	roles  *mockRoleRepo
	nextID uint
}

func newMockUserRepo(roles *mockRoleRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), roles: roles, nextID: 1}
}

// withRole 模拟 Preload("Role")
func (m *mockUserRepo) withRole(u *model.User) *model.User {
	cp := *u
	if r, ok := m.roles.roles[u.RoleID]; ok {
		cp.Role = r
	}
	return &cp
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Login == user.Login {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withRole(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			return m.withRole(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	cp.Role = nil
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var list []model.User
	for _, u := range m.users {
		list = append(list, *m.withRole(u))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── mockTokenRepo ──

type mockTokenRepo struct {
	tokens map[uint]*model.APIToken
	users  *mockUserRepo
	nextID uint
	// collisions 前 N 次 Create 返回唯一约束冲突
	collisions int
}

func newMockTokenRepo(users *mockUserRepo) *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[uint]*model.APIToken), users: users, nextID: 1}
}

func (m *mockTokenRepo) Create(_ context.Context, token *model.APIToken) error {
	if m.collisions > 0 {
		m.collisions--
		return gorm.ErrDuplicatedKey
	}
	for _, t := range m.tokens {
		if t.Token == token.Token {
			return gorm.ErrDuplicatedKey
		}
	}
	token.ID = m.nextID
	m.nextID++
	cp := *token
	m.tokens[token.ID] = &cp
	return nil
}

func (m *mockTokenRepo) FindActiveByUser(_ context.Context, userID uint, now time.Time) (*model.APIToken, error) {
	var found *model.APIToken
	for _, t := range m.tokens {
		if t.UserID == userID && t.ActiveAt(now) && (found == nil || t.ID < found.ID) {
			found = t
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockTokenRepo) GetByValue(ctx context.Context, value string) (*model.APIToken, error) {
	for _, t := range m.tokens {
		if t.Token == value {
			cp := *t
			if u, err := m.users.GetByID(ctx, t.UserID); err == nil {
				cp.User = u
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) DeleteByID(_ context.Context, id uint) (int64, error) {
	if _, ok := m.tokens[id]; !ok {
		return 0, nil
	}
	delete(m.tokens, id)
	return 1, nil
}

func (m *mockTokenRepo) DeleteByUser(_ context.Context, userID uint) error {
	for id, t := range m.tokens {
		if t.UserID == userID {
			delete(m.tokens, id)
		}
	}
	return nil
}

// ── mockDeptRepo ──

type mockDeptRepo struct {
	departments map[uint]*model.Department
	// vacancies 部门 id → 引用它的职位数
	vacancies map[uint]int64
	nextID    uint
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{
		departments: map[uint]*model.Department{1: {ID: 1, Name: "Разработка"}},
		vacancies:   make(map[uint]int64),
		nextID:      2,
	}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.departments {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	dept.ID = m.nextID
	m.nextID++
	cp := *dept
	m.departments[dept.ID] = &cp
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id uint) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var list []model.Department
	for _, d := range m.departments {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	cp := *dept
	m.departments[dept.ID] = &cp
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id uint) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDeptRepo) CountVacancies(_ context.Context, departmentID uint) (int64, error) {
	return m.vacancies[departmentID], nil
}

// ── mockProposalRepo ──

type mockProposalRepo struct {
	proposals map[uint]*model.Proposal
	nextID    uint
	failNext  error
}

func newMockProposalRepo() *mockProposalRepo {
	return &mockProposalRepo{proposals: make(map[uint]*model.Proposal), nextID: 1}
}

func (m *mockProposalRepo) Create(_ context.Context, p *model.Proposal) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.proposals[p.ID] = &cp
	return nil
}

func (m *mockProposalRepo) GetByID(_ context.Context, id uint) (*model.Proposal, error) {
	if p, ok := m.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProposalRepo) List(_ context.Context) ([]model.Proposal, error) {
	var list []model.Proposal
	for _, p := range m.proposals {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *mockProposalRepo) UpdateStatus(_ context.Context, id uint, status model.ReviewStatus) error {
	if p, ok := m.proposals[id]; ok {
		p.Status = status
	}
	return nil
}

func (m *mockProposalRepo) Delete(_ context.Context, id uint) error {
	delete(m.proposals, id)
	return nil
}

// ── 聚合 ──

type mockRepos struct {
	roles     *mockRoleRepo
	users     *mockUserRepo
	tokens    *mockTokenRepo
	depts     *mockDeptRepo
	proposals *mockProposalRepo
}

// newMockRepository 构建 db 为空的 Repository；Transaction 直接在原仓储上执行
func newMockRepository() (*repository.Repository, *mockRepos) {
	roles := newMockRoleRepo()
	users := newMockUserRepo(roles)
	m := &mockRepos{
		roles:     roles,
		users:     users,
		tokens:    newMockTokenRepo(users),
		depts:     newMockDeptRepo(),
		proposals: newMockProposalRepo(),
	}
	repo := &repository.Repository{
		Role:       m.roles,
		User:       m.users,
		Token:      m.tokens,
		Department: m.depts,
		Proposal:   m.proposals,
	}
	return repo, m
}
