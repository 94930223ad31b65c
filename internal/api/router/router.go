package router

import (
	"reflect"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/blog-api/config"
	_ "github.com/d60-Lab/blog-api/docs"
	"github.com/d60-Lab/blog-api/internal/api/handler"
	"github.com/d60-Lab/blog-api/internal/middleware"
	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/jwt"
	"github.com/d60-Lab/blog-api/pkg/response"
)

// New 组装 gin 引擎：中间件、路由、swagger、兜底 404
func New(cfg *config.Config, h *handler.Handler, tokens *jwt.Manager, authSvc service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerTagNames()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.AccessLog())
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware("blog-api"))
	}

	r.GET("/", h.Root)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", middleware.JWTAuth(tokens, authSvc), h.Logout)
			auth.GET("/me", middleware.JWTAuth(tokens, authSvc), h.Me)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.ListPosts)
			posts.GET("/:id", h.GetPost)
			protected := posts.Group("", middleware.JWTAuth(tokens, authSvc))
			{
				protected.POST("", h.CreatePost)
				protected.PUT("/:id", h.UpdatePost)
				protected.DELETE("/:id", h.DeletePost)
			}
		}
	}

	// 未知路由同样走标准包络
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return r
}

// registerTagNames 校验错误里用 json 字段名而非 Go 字段名
func registerTagNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}
