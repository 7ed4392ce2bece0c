// Package httpapi exposes the services over a JSON HTTP API built on echo.
package httpapi

import (
	"net/http"

	"survival-index/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const bodyLimit = "1M"

// Services 路由用到的全部业务服务
type Services struct {
	Projects    *service.ProjectService
	Ratings     *service.RatingService
	Submissions *service.SubmissionService
	Evaluation  *service.EvaluationService
	Auth        *service.AuthService
	Export      *service.ExportService
}

type Options struct {
	FrontendURL string
	Environment string
	// DemoMode 只影响根路径返回的 mode
	DemoMode bool
	Debug    bool
}

func NewServer(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = opts.Debug
	e.Logger.SetLevel(99)
	e.Validator = newRequestValidator()

	registerMiddlewares(e, opts)
	registerRoutes(e, &handler{svc: svc, opts: opts})
	return e
}

func registerMiddlewares(e *echo.Echo, opts Options) {
	origins := []string{"*"}
	if opts.FrontendURL != "" {
		origins = []string{opts.FrontendURL}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
		AllowCredentials: opts.FrontendURL != "",
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: attachRequestID,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(requestLogger())
	e.Use(recoverer())

	e.HTTPErrorHandler = errorHandler(e)
}

func registerRoutes(e *echo.Echo, h *handler) {
	e.GET("/", h.root)

	api := e.Group("/api")
	api.GET("/health", h.health)

	auth := api.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.POST("/logout-all", h.logoutAll, h.requireAuth)
	auth.GET("/me", h.me, h.requireAuth)
	auth.POST("/register", h.register, h.requireAdmin)

	projects := api.Group("/projects")
	projects.GET("", h.listProjects)
	projects.GET("/leaderboard", h.leaderboard)
	projects.GET("/:id", h.getProject)
	projects.POST("", h.createProject, h.requireAdmin)
	projects.PUT("/:id", h.updateProject, h.requireAdmin)
	projects.DELETE("/:id", h.deleteProject, h.requireAdmin)

	judge := api.Group("/ai-judge", h.requireAdmin)
	judge.POST("/evaluate/:projectId", h.evaluate)
	judge.POST("/batch-evaluate", h.batchEvaluate)
	judge.POST("/reevaluate-stale", h.reevaluateStale)

	ratings := api.Group("/ratings")
	ratings.POST("", h.submitRating, h.optionalAuth)
	ratings.GET("/:projectId", h.listRatings)
	ratings.GET("/:projectId/average", h.averageRatings)

	subs := api.Group("/submissions")
	subs.POST("", h.submitProject)
	subs.GET("", h.listSubmissions, h.requireAdmin)
	subs.GET("/pending/count", h.pendingCount, h.requireAdmin)
	subs.GET("/:id", h.getSubmission, h.requireAdmin)
	subs.POST("/:id/approve", h.approveSubmission, h.requireAdmin)
	subs.POST("/:id/reject", h.rejectSubmission, h.requireAdmin)
	subs.DELETE("/:id", h.deleteSubmission, h.requireAdmin)

	exp := api.Group("/export")
	exp.GET("/projects", h.exportProjects)
	exp.GET("/ai-ratings", h.exportAIRatings)
	exp.GET("/community-ratings", h.exportCommunityRatings)
	exp.GET("/submissions", h.exportSubmissions)
	exp.GET("/stats", h.exportStats)
	exp.POST("/generate", h.exportAll, h.requireAdmin)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Route not found")
	})
}

type handler struct {
	svc  Services
	opts Options
}
