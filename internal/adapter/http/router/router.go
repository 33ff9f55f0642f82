package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adrianacoliiin/scanna-backend/internal/adapter/http/handler"
	"github.com/adrianacoliiin/scanna-backend/internal/adapter/http/middleware"
)

// Dependencies bundles everything the router wires together
type Dependencies struct {
	Auth        *handler.AuthHandler
	Specialists *handler.SpecialistHandler
	Records     *handler.RecordHandler
	Dashboard   *handler.DashboardHandler
	Health      *handler.HealthHandler
	Verifier    middleware.TokenVerifier
	Log         *zap.Logger
	UploadDir   string
}

// Setup builds the gin engine with all routes and middleware
func Setup(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.CORS())

	r.GET("/health", deps.Health.Health)
	r.GET("/ready", deps.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", deps.UploadDir)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.GET("/verify", middleware.Auth(deps.Verifier), deps.Auth.VerifyToken)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(deps.Verifier))
	{
		specialists := protected.Group("/specialists")
		{
			specialists.GET("/profile", deps.Specialists.GetProfile)
			specialists.PUT("/profile", deps.Specialists.UpdateProfile)
			specialists.GET("/stats", deps.Specialists.GetStats)
		}

		records := protected.Group("/records")
		{
			records.POST("", deps.Records.Create)
			records.POST("/analyze", deps.Records.Analyze)
			records.GET("", deps.Records.List)
			records.GET("/:id", deps.Records.Get)
			records.GET("/case/:caseNumber", deps.Records.GetByCaseNumber)
			records.POST("/:id/explain", deps.Records.Explain)
			records.DELETE("/:id", deps.Records.Delete)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/stats", deps.Dashboard.GetStats)
			dashboard.GET("/recent-activity", deps.Dashboard.GetRecentActivity)
			dashboard.GET("/trends", deps.Dashboard.GetTrends)
		}
	}

	return r
}
