package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/citydesk/announce-api/api/swagger"
	"github.com/citydesk/announce-api/internal/handler"
	"github.com/citydesk/announce-api/internal/middleware"
	"github.com/citydesk/announce-api/internal/repository"
	"github.com/citydesk/announce-api/internal/service"
	"github.com/citydesk/announce-api/pkg/cache"
	"github.com/citydesk/announce-api/pkg/config"
	"github.com/citydesk/announce-api/pkg/database"
	"github.com/citydesk/announce-api/pkg/logger"
	corsmiddleware "github.com/citydesk/announce-api/pkg/middleware/cors"
	reqidmiddleware "github.com/citydesk/announce-api/pkg/middleware/requestid"
)

// @title City Announcements API
// @version 1.0.0
// @description Announcement publishing service with category tagging
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, category cache disabled", "error", err)
			redisClient = nil
		}
	}

	validate := service.NewValidator()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	announcementRepo := repository.NewAnnouncementRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, cacheRepo, cfg.Cache.CategoryTTL, validate, logr)
	metricsSvc := service.NewMetricsService()

	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/categories", categoryHandler.List)
	r.POST("/categories", categoryHandler.Create)

	r.GET("/announcements", announcementHandler.List)
	r.POST("/announcements", announcementHandler.Create)
	r.GET("/announcements/export", announcementHandler.Export)
	r.GET("/announcements/:id", announcementHandler.Get)
	r.PATCH("/announcements/:id", announcementHandler.Update)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
