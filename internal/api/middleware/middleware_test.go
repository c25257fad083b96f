package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-hub/backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	token string
	user  *model.User
}

func (s *stubAuthenticator) Authenticate(_ context.Context, value string) (*model.APIToken, *model.User, error) {
	if value != s.token {
		return nil, nil, errors.New("invalid")
	}
	return &model.APIToken{ID: 1, UserID: s.user.ID, Token: value}, s.user, nil
}

func newAuthRouter(user *model.User, roles ...model.RoleName) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{TokenAuth(&stubAuthenticator{token: "good", user: user})}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		u := c.MustGet(ContextUserKey).(*model.User)
		c.String(http.StatusOK, u.Login)
	})
	r.GET("/p", chain...)
	return r
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenAuth(t *testing.T) {
	user := &model.User{ID: 7, Login: "alice", Role: &model.Role{Name: model.RoleManager}}
	r := newAuthRouter(user)

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized: missing token")

	w = doGet(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized: missing token")

	w = doGet(r, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized: invalid or expired token")

	w = doGet(r, "bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	manager := &model.User{ID: 2, Login: "bob", Role: &model.Role{Name: model.RoleManager}}
	w := doGet(newAuthRouter(manager, model.RoleAdmin), "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied. Admins only.")
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)

	admin := &model.User{ID: 1, Login: "root", Role: &model.Role{Name: model.RoleAdmin}}
	w = doGet(newAuthRouter(admin, model.RoleAdmin), "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocalLimiter(t *testing.T) {
	l := NewLocalLimiter()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.CheckRateLimit(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.CheckRateLimit(ctx, "k", 3, time.Minute)
	assert.False(t, ok)

	// 不同 key 独立计数
	ok, _ = l.CheckRateLimit(ctx, "other", 3, time.Minute)
	assert.True(t, ok)

	// 20 秒补充一个令牌
	now = now.Add(21 * time.Second)
	ok, _ = l.CheckRateLimit(ctx, "k", 3, time.Minute)
	assert.True(t, ok)
}

type failingChecker struct{}

func (failingChecker) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewLocalLimiter(), "login", 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Contains(t, w.Body.String(), `"code":"too_many_requests"`)
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// 限流后端故障时放行
	r = gin.New()
	r.POST("/login", RateLimit(failingChecker{}, "login", 1, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/p", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/p", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/p", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/p", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "boom")
}
