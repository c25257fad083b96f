package router

import (
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-hub/backend/config"
	"recruit-hub/backend/internal/api/handler"
	"recruit-hub/backend/internal/api/middleware"
	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/pkg/metrics"
	"recruit-hub/backend/pkg/response"
	"recruit-hub/backend/pkg/storage"
)

// Deps 路由依赖
type Deps struct {
	Auth    middleware.TokenAuthenticator
	Limiter middleware.RateChecker // Redis 客户端或进程内限流器
	Logger  *zap.Logger
}

// gzip 排除二进制下载与导出，保留 Content-Length
var gzipExcluded = []string{
	`^/api/applications/(download/|export)`,
	`^/api/proposals/[0-9]+/download`,
	`^/storage/`,
	`^/metrics`,
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(gzipExcluded)))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ── 游戏图片静态访问（简历与提案附件不公开） ──
	gamesDir := path.Dir(storage.BucketGameMain)
	r.Static(path.Join(cfg.Storage.PublicPrefix, gamesDir), filepath.Join(cfg.Storage.Root, gamesDir))

	loginLimit := middleware.RateLimit(deps.Limiter, "login", cfg.RateLimit.LoginPerMinute, time.Minute, deps.Logger)
	submitLimit := middleware.RateLimit(deps.Limiter, "submit", cfg.RateLimit.SubmitPerMinute, time.Minute, deps.Logger)

	api := r.Group("/api")
	{
		// ── 公开接口 ──
		api.POST("/auth/login", loginLimit, h.Auth.Login)

		api.GET("/vacancies", h.Vacancy.ListActive)
		api.GET("/vacancies/count", h.Vacancy.CountActive)
		api.GET("/vacancies/:id", h.Vacancy.Get)

		api.GET("/games", h.Game.List)
		api.GET("/games/data", h.Game.Data)
		api.GET("/games/:id", h.Game.Get)

		departments := api.Group("/departments")
		{
			departments.GET("", h.Department.List)
			departments.POST("", h.Department.Create)
			departments.PUT("/:id", h.Department.Update)
			departments.PATCH("/:id", h.Department.Update)
			departments.DELETE("/:id", h.Department.Delete)
		}

		api.POST("/applications/:vacancyId", submitLimit, h.Application.Create)
		api.POST("/proposals", submitLimit, h.Proposal.Create)

		// ── 需要认证的路由 ──
		authorized := api.Group("")
		authorized.Use(middleware.TokenAuth(deps.Auth))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 当前用户
			authorized.GET("/user", h.User.Me)
			authorized.POST("/user/password", h.User.ChangePassword)

			// 用户管理（仅管理员）
			users := authorized.Group("/users")
			users.Use(middleware.RequireRole(model.RoleAdmin))
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.PATCH("/:id", h.User.Update)
				users.PATCH("/:id/role", h.User.UpdateRole)
				users.POST("/:id/password", h.User.ResetPassword)
				users.DELETE("/:id", h.User.Delete)
			}

			// 职位
			authorized.POST("/vacancies", h.Vacancy.Create)
			authorized.PUT("/vacancies/:id", h.Vacancy.Update)
			authorized.PATCH("/vacancies/:id", h.Vacancy.Update)
			authorized.DELETE("/vacancies/:id", h.Vacancy.Delete)

			// 求职申请
			applications := authorized.Group("/applications")
			{
				applications.GET("", h.Application.List)
				applications.GET("/export", h.Export.ExportApplications)
				applications.GET("/download/:filename", h.Application.Download)
				applications.GET("/:id", h.Application.Get)
				applications.PATCH("/:id/status", h.Application.UpdateStatus)
				applications.DELETE("/:id", h.Application.Delete)
			}

			// 商务提案
			proposals := authorized.Group("/proposals")
			{
				proposals.GET("", h.Proposal.List)
				proposals.GET("/:id", h.Proposal.Get)
				proposals.PATCH("/:id/status", h.Proposal.UpdateStatus)
				proposals.GET("/:id/download", h.Proposal.Download)
				proposals.DELETE("/:id", h.Proposal.Delete)
			}

			// 游戏
			authorized.POST("/games", h.Game.Create)
			authorized.PUT("/games/:id", h.Game.Update)
			authorized.PATCH("/games/:id", h.Game.Update)
			authorized.DELETE("/games/:id", h.Game.Delete)
		}
	}

	return r
}
