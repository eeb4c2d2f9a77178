package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dassimern/kosher-directory-api/api/swagger"
	"github.com/dassimern/kosher-directory-api/internal/handler"
	"github.com/dassimern/kosher-directory-api/internal/middleware"
	"github.com/dassimern/kosher-directory-api/internal/notify"
	"github.com/dassimern/kosher-directory-api/internal/service"
	"github.com/dassimern/kosher-directory-api/internal/sheet"
	"github.com/dassimern/kosher-directory-api/internal/store"
	"github.com/dassimern/kosher-directory-api/pkg/cache"
	"github.com/dassimern/kosher-directory-api/pkg/config"
	"github.com/dassimern/kosher-directory-api/pkg/database"
	"github.com/dassimern/kosher-directory-api/pkg/logger"
	corsmiddleware "github.com/dassimern/kosher-directory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dassimern/kosher-directory-api/pkg/middleware/requestid"
)

// @title Kosher Directory API
// @version 1.0.0
// @description Community directory of kosher restaurants with a moderation workflow
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var backend sheet.Backend
	switch cfg.Sheet.Backend {
	case config.SheetBackendMemory:
		backend = sheet.NewMemory()
		sugar.Infow("using in-memory sheet backend")
	default:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			sugar.Fatalw("failed to connect to database", "error", err)
		}
		defer db.Close()

		pg, err := sheet.NewPostgres(db, cfg.Sheet.Table)
		if err != nil {
			sugar.Fatalw("invalid sheet table name", "table", cfg.Sheet.Table, "error", err)
		}
		if err := pg.EnsureTable(ctx); err != nil {
			sugar.Fatalw("failed to prepare sheet table", "table", cfg.Sheet.Table, "error", err)
		}
		backend = pg
	}

	recordStore := store.New(backend, logr, metricsSvc)

	authSvc, err := service.NewAuthService(cfg.Moderator, logr)
	if err != nil {
		sugar.Fatalw("failed to init auth service", "error", err)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.Enabled {
		dispatcher := notify.NewDispatcher(notify.NewMailer(cfg.Notify), cfg.Notify, logr)
		dispatcher.Start(ctx)
		defer dispatcher.Stop()
		notifier = dispatcher
	}

	location, err := time.LoadLocation(cfg.Sheet.Timezone)
	if err != nil {
		sugar.Warnw("unknown timezone, falling back to UTC", "timezone", cfg.Sheet.Timezone)
		location = time.UTC
	}

	moderationSvc := service.NewModerationService(recordStore, authSvc, notifier, validator.New(), logr, location)
	listingSvc := service.NewListingService(recordStore, authSvc, logr)

	restHandler := handler.NewRestaurantHandler(moderationSvc, listingSvc, nil, authSvc)
	if cfg.Export.Enabled {
		restHandler = handler.NewRestaurantHandler(moderationSvc, listingSvc, service.NewExportService(listingSvc, logr), authSvc)
	}
	authHandler := handler.NewAuthHandler(authSvc)

	submitMiddleware := []gin.HandlerFunc{}
	if cfg.Submissions.RateLimitEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			sugar.Warnw("redis unavailable, submission rate limiting disabled", "error", err)
		} else {
			defer redisClient.Close()
			submitMiddleware = append(submitMiddleware, middleware.SubmissionRateLimit(redisClient, cfg.Submissions, logr))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if _, err := backend.Header(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/restaurants", restHandler.List)
		api.POST("/restaurants", append(submitMiddleware, restHandler.Submit)...)
		api.POST("/restaurants/:id/status", restHandler.SetStatus)
		api.PUT("/restaurants/:id", restHandler.Edit)
		api.DELETE("/restaurants/:id", restHandler.Delete)
		if cfg.Export.Enabled {
			api.GET("/restaurants/export", restHandler.Export)
		}

		api.POST("/auth/login", authHandler.Login)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "sheet_backend", cfg.Sheet.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}
