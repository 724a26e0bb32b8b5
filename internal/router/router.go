package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/goodlyheritage/entrance-portal/internal/config"
	"github.com/goodlyheritage/entrance-portal/internal/handler"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Portal   *handler.PortalHandler
	Report   *handler.ReportHandler
	Question *handler.QuestionHandler
	Student  *handler.StudentHandler
	Setting  *handler.SettingHandler
	Result   *handler.ResultHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(verifier *middleware.Verifier, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAny(verifier), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAny(verifier), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(middleware.RequireStudent(verifier))
	{
		studentAPI.GET("/dashboard", handlers.Report.Dashboard)

		studentAPI.POST("/exam/session", handlers.Portal.Start)
		studentAPI.GET("/exam/session", handlers.Portal.Get)
		studentAPI.PUT("/exam/session/answer", handlers.Portal.Answer)
		studentAPI.POST("/exam/session/navigate", handlers.Portal.Navigate)
		studentAPI.POST("/exam/session/jump", handlers.Portal.Jump)
		studentAPI.POST("/exam/session/submit", handlers.Portal.Submit)
		studentAPI.POST("/exam/session/cancel", handlers.Portal.Cancel)
		studentAPI.POST("/exam/session/exit", handlers.Portal.RequestExit)
		studentAPI.POST("/exam/session/exit/confirm", handlers.Portal.ConfirmExit)
		studentAPI.POST("/exam/session/resume", handlers.Portal.Resume)

		studentAPI.GET("/reports/slip.pdf", handlers.Report.Slip)
		studentAPI.GET("/reports/result", handlers.Report.Result)
		studentAPI.GET("/reports/result.pdf", handlers.Report.Report)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	wsAPI := router.Group("/ws/v1")
	wsAPI.Use(middleware.RequireStudentWS(verifier))
	{
		wsAPI.GET("/exam/countdown", handlers.WS.Countdown)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(verifier))
	{
		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.POST("/questions/preview", handlers.Question.Preview)
		adminAPI.PUT("/questions/:id", handlers.Question.Update)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)

		adminAPI.GET("/students", handlers.Student.List)
		adminAPI.POST("/students", handlers.Student.Register)
		adminAPI.GET("/students/:examNumber/slip.pdf", handlers.Student.Slip)

		adminAPI.GET("/settings", handlers.Setting.Get)
		adminAPI.PUT("/settings", handlers.Setting.Update)

		adminAPI.GET("/results", handlers.Result.List)
		adminAPI.GET("/results/export.xlsx", handlers.Result.Export)
	}

	return router
}
