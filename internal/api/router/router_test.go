package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-hub/backend/config"
	"recruit-hub/backend/internal/api/handler"
	"recruit-hub/backend/internal/api/middleware"
	"recruit-hub/backend/internal/repository"
	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/database"
	"recruit-hub/backend/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(root string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL:      "http://localhost:8080",
			MaxBodyBytes: 8 << 20,
			CORS:         config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
		},
		Database:  config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Auth:      config.AuthConfig{TokenTTL: time.Hour, TokenLength: 64, BcryptCost: 4},
		Storage:   config.StorageConfig{Root: root, PublicPrefix: "/storage"},
		RateLimit: config.RateLimitConfig{LoginPerMinute: 100, SubmitPerMinute: 100},
		Seed:      config.SeedConfig{AdminLogin: "admin", AdminPassword: "admin-pass"},
	}
}

// newTestEngine 基于内存 SQLite 与临时目录组装完整路由
func newTestEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewDB(&cfg.Database, logger)
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.RunMigrations(db, logger))

	disk, err := storage.NewLocalDisk(cfg.Storage.Root)
	require.NoError(t, err)

	svc := service.NewService(cfg, repository.NewRepository(db), disk, logger)
	require.NoError(t, svc.Seed.Run(context.Background()))

	return Setup(cfg, handler.NewHandler(svc, logger), Deps{
		Auth:    svc.Auth,
		Limiter: middleware.NewLocalLimiter(),
		Logger:  logger,
	})
}

func do(r http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, user, pass string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/auth/login", "", `{"login":"`+user+`","password":"`+pass+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Token, 64)
	return resp.Token
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestEngine(t, testConfig(t.TempDir()))

	w := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PublicAndProtected(t *testing.T) {
	r := newTestEngine(t, testConfig(t.TempDir()))

	w := do(r, http.MethodGet, "/api/vacancies", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/api/departments", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/applications", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized: missing token")

	w = do(r, http.MethodGet, "/api/user", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized: invalid or expired token")
}

func TestRouter_AuthFlow(t *testing.T) {
	r := newTestEngine(t, testConfig(t.TempDir()))

	admin := login(t, r, "admin", "admin-pass")
	// 有效令牌被复用
	assert.Equal(t, admin, login(t, r, "admin", "admin-pass"))

	w := do(r, http.MethodGet, "/api/user", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	// 管理员创建经理账号
	w = do(r, http.MethodPost, "/api/users", admin, `{"login":"manager","password":"manager-pass","role_id":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	manager := login(t, r, "manager", "manager-pass")
	w = do(r, http.MethodGet, "/api/users", manager, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied. Admins only.")

	// 经理可访问非管理员的受保护路由
	w = do(r, http.MethodGet, "/api/proposals", manager, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/auth/logout", manager, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/user", manager, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.RateLimit.LoginPerMinute = 2
	r := newTestEngine(t, cfg)

	body := `{"login":"admin","password":"wrong"}`
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/auth/login", "", body).Code)

	w := do(r, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"too_many_requests"`)
}

func TestRouter_StaticGameImagesOnly(t *testing.T) {
	root := t.TempDir()
	r := newTestEngine(t, testConfig(root))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "games", "main"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "games", "main", "cover.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "applications", "resumes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "applications", "resumes", "cv.pdf"), []byte("pdf"), 0o644))

	w := do(r, http.MethodGet, "/storage/games/main/cover.png", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	w = do(r, http.MethodGet, "/storage/applications/resumes/cv.pdf", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
