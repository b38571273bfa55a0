package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/samudata/samudata-api/internal/handler"
	"github.com/samudata/samudata-api/internal/middleware"
	"github.com/samudata/samudata-api/internal/service"
	"github.com/samudata/samudata-api/pkg/config"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/logger"
	corsmiddleware "github.com/samudata/samudata-api/pkg/middleware/cors"
	reqidmiddleware "github.com/samudata/samudata-api/pkg/middleware/requestid"
	"github.com/samudata/samudata-api/pkg/response"
)

// multipartMemory is how much of an upload gin keeps in memory before spilling to temp files.
const multipartMemory = 8 << 20

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Files    *handler.FileHandler
	Upload   *handler.UploadHandler
	Download *handler.DownloadHandler
	Metrics  *handler.MetricsHandler
}

// New builds the gin engine with the shared middleware chain and every route.
func New(cfg *config.Config, log *zap.Logger, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = multipartMemory
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics))
	}
	r.Use(middleware.Actor())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, appErrors.ErrMethodNotAllowed)
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/files", h.Files.Query)
	api.POST("/files", h.Files.Command)
	api.POST("/upload", h.Upload.Upload)
	api.GET("/download", h.Download.Download)

	return r
}
