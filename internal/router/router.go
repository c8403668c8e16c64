package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edulane/tutora-backend/internal/config"
	"github.com/edulane/tutora-backend/internal/handler"
	"github.com/edulane/tutora-backend/internal/middleware"
	"github.com/edulane/tutora-backend/internal/response"
	"github.com/edulane/tutora-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Class      *handler.ClassHandler
	Enrollment *handler.EnrollmentHandler
	Meeting    *handler.MeetingHandler
	Presence   *handler.PresenceHandler
	User       *handler.UserHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAnyJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAnyJWT(authService), handlers.Auth.Me)
		auth.PUT("/me", middleware.RequireAnyJWT(authService), handlers.Auth.UpdateProfile)
	}

	// ─── 2. Public Catalog Group (No Auth) ─────────────────────────────
	classes := router.Group("/api/v1/classes")
	{
		classes.GET("/upcoming", handlers.Class.ListUpcoming)
		classes.GET("/:id", handlers.Class.Get)
	}
	router.GET("/api/v1/teachers", handlers.User.ListTeachers)

	// ─── 3. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.GET("/classes", handlers.Class.ListMine)
		teacherAPI.POST("/classes", handlers.Class.Create)
		teacherAPI.PUT("/classes/:id", handlers.Class.Update)
		teacherAPI.DELETE("/classes/:id", handlers.Class.Delete)
		teacherAPI.POST("/classes/:id/start", handlers.Class.Start)
		teacherAPI.POST("/classes/:id/end", handlers.Class.End)
		teacherAPI.POST("/classes/:id/cancel", handlers.Class.Cancel)
	}

	// ─── 4. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/classes", handlers.Enrollment.MyClasses)
		studentAPI.POST("/classes/:id/enroll", handlers.Enrollment.Enroll)
		studentAPI.DELETE("/classes/:id/enroll", handlers.Enrollment.Withdraw)
	}

	// ─── 5. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/students/:id/reset-session", handlers.Auth.ResetStudentSession)
	}

	// ─── 6. Meeting Group ──────────────────────────────────────────────
	meetings := router.Group("/api/v1")
	{
		// Join tokens for any authenticated participant.
		meetings.POST("/classes/:id/meeting-token",
			middleware.RequireAnyJWT(authService),
			handlers.Meeting.JoinToken,
		)
		// Provider webhook authenticates via the signed meeting token in
		// its payload, not a user JWT.
		meetings.POST("/meetings/events", handlers.Meeting.ProviderEvent)
	}

	// ─── 7. WebSocket Group (Meeting Token Auth) ───────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/meetings/presence", handlers.Presence.Stream)
	}

	return router
}
