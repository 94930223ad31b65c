package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-api/config"
	"github.com/d60-Lab/blog-api/internal/api/handler"
	"github.com/d60-Lab/blog-api/internal/api/router"
	"github.com/d60-Lab/blog-api/internal/repository"
	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/database"
	"github.com/d60-Lab/blog-api/pkg/jwt"
	"github.com/d60-Lab/blog-api/pkg/logger"
	"github.com/d60-Lab/blog-api/pkg/tracing"
)

// @title Blog API
// @version 1.0
// @description 博客发布服务：邮箱密码认证 + 博文 CRUD
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	// repositories & services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
	authSvc := service.NewAuthService(userRepo, tokens)
	postSvc := service.NewPostService(postRepo)

	h := handler.NewHandler(authSvc, postSvc)
	engine := router.New(cfg, h, tokens, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing", zap.Error(err))
	}
}
