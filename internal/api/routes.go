package api

import (
	"context"
	"net/http"
	"time"

	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps groups everything SetupRoutes wires together.
type RouterDeps struct {
	Log             *logger.Logger
	AuthService     service.AuthService
	PlanService     service.PlanService
	ResourceService service.ResourceService
	SessionService  service.SessionService
	DBHealth        HealthCheck
	ServiceName     string
	CORSOrigins     []string
}

// NewRouter builds a gin engine with the standard middleware chain and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		otelgin.Middleware(deps.ServiceName),
		RequestLogger(deps.Log),
		Recovery(deps.Log),
		CORS(deps.CORSOrigins),
	)
	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthService, deps.Log)
	planHandler := NewPlanHandler(deps.PlanService, deps.Log)
	resourceHandler := NewResourceHandler(deps.ResourceService, deps.Log)
	sessionHandler := NewSessionHandler(deps.SessionService, deps.Log)

	authMiddleware := AuthMiddleware(deps.AuthService)

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, CodeNotFound, "Route not found")
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ping", func(c *gin.Context) {
			respondOK(c, http.StatusOK, gin.H{"message": "pong"})
		})
		apiV1.GET("/health", healthHandler(deps.DBHealth))

		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Curated resources ---
		resourceGroup := protected.Group("/resources")
		{
			resourceGroup.POST("", resourceHandler.CurateResources)
			resourceGroup.GET("/:userId", resourceHandler.ListResources)
			resourceGroup.GET("/:userId/:id", resourceHandler.GetResourceSet)
			resourceGroup.DELETE("/:id", resourceHandler.DeleteResourceSet)
		}

		// --- Study plans ---
		planGroup := protected.Group("/plan")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("/:userId", planHandler.ListPlans)
			planGroup.GET("/:userId/:id", planHandler.GetPlan)
			planGroup.GET("/:userId/:id/export", planHandler.ExportPlan)
			planGroup.PATCH("/:id/progress", planHandler.UpdateProgress)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
		}

		// --- Focus timer ---
		protected.POST("/study-sessions", sessionHandler.RecordSession)
		protected.GET("/users/stats", sessionHandler.Stats)
	}
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check == nil {
			respondOK(c, http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			abortWithError(c, http.StatusServiceUnavailable, CodeServiceUnavailable, "database unreachable")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
