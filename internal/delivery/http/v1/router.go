package v1

import (
	"net/http"
	"time"

	"go-portfolio-backend/config"
	"go-portfolio-backend/internal/delivery/http/middleware"
	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	EditorUC  domain.EditorUsecase
	ImportUC  domain.ImportUsecase
	EnhanceUC domain.EnhanceUsecase
	HealthUC  usecase.HealthUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - everything below acts on a single user's draft
	protected := v1.Group("")
	protected.Use(middleware.UserIdentity())
	{
		NewEditorHandler(protected, deps.EditorUC)
		NewResumeHandler(protected, deps.ImportUC, deps.Config.MaxResumeSizeBytes,
			middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(deps.Config.RateLimitUploadThreshold, window)))
		NewAIHandler(protected, deps.EnhanceUC,
			middleware.RateLimitMiddleware(middleware.AIRateLimitConfig(deps.Config.RateLimitAIThreshold, window)))
	}

	return r
}
