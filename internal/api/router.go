package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/nousrire-site/config"
	_ "github.com/d60-Lab/nousrire-site/docs"
	"github.com/d60-Lab/nousrire-site/internal/api/handler"
	"github.com/d60-Lab/nousrire-site/internal/api/middleware"
)

// SetupRouter 注册全部路由
func SetupRouter(h *handler.Handler, cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		middleware.Timeout(cfg.Server.RequestTimeout),
		// 图片已是 webp，不再压缩
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/o/"})),
	)

	r.GET("/health", h.Health)
	r.GET("/o/*object", h.GetObject)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	admin := middleware.AdminAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AdminRole)
	signup := middleware.NewIPRateLimiter(cfg.Server.SignupRate, cfg.Server.SignupBurst)

	v1 := r.Group("/api/v1")
	{
		news := v1.Group("/news")
		news.GET("", h.ListNews)
		news.GET("/:id", admin, h.GetNews)
		news.POST("", admin, h.CreateNews)
		news.DELETE("/:id", admin, h.DeleteNews)

		events := v1.Group("/events")
		events.GET("", h.ListEvents)
		events.POST("", admin, h.CreateEvent)
		events.PUT("/:id", admin, h.UpdateEvent)
		events.DELETE("/:id", admin, h.DeleteEvent)

		volunteers := v1.Group("/volunteers")
		volunteers.POST("", signup.Middleware(), h.CreateVolunteer)
		volunteers.GET("", admin, h.ListVolunteers)
		volunteers.DELETE("/:id", admin, h.DeleteVolunteer)
	}
	return r
}
