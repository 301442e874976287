package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/courseware-api/api/swagger"
	"github.com/noah-isme/courseware-api/internal/handler"
	"github.com/noah-isme/courseware-api/internal/middleware"
	"github.com/noah-isme/courseware-api/internal/models"
	"github.com/noah-isme/courseware-api/internal/repository"
	"github.com/noah-isme/courseware-api/internal/service"
	"github.com/noah-isme/courseware-api/pkg/cache"
	"github.com/noah-isme/courseware-api/pkg/config"
	"github.com/noah-isme/courseware-api/pkg/database"
	"github.com/noah-isme/courseware-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/courseware-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/courseware-api/pkg/middleware/requestid"
)

// @title Courseware API
// @version 1.0.0
// @description Course, module and lesson management with role-based access
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	var cacheSvc *service.CacheService
	metricsSvc := service.NewMetricsService()
	if cfg.Redis.Enabled && cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), cfg.Cache.TTL, metricsSvc, logr)
		}
	}

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	userRepo := repository.NewUserRepository(db)

	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	moduleSvc := service.NewModuleService(moduleRepo, courseRepo, validate, logr)
	lessonSvc := service.NewLessonService(lessonRepo, moduleRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer, validate, logr)
	exportSvc := service.NewExportService(courseRepo, moduleRepo, lessonRepo, logr)

	courseHandler := handler.NewCourseHandler(courseSvc, exportSvc)
	moduleHandler := handler.NewModuleHandler(moduleSvc)
	lessonHandler := handler.NewLessonHandler(lessonSvc)
	userHandler := handler.NewUserHandler(userSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler.Handler())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := middleware.JWT(authSvc)
	contentWriters := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:id", courseHandler.Get)
			courses.GET("/:id/export", courseHandler.Export)
			courses.POST("", authenticated, contentWriters, courseHandler.Create)
			courses.PUT("/:id", authenticated, contentWriters, courseHandler.Update)
			courses.DELETE("/:id", authenticated, contentWriters, courseHandler.Delete)
		}

		modules := api.Group("/modules")
		{
			modules.GET("", moduleHandler.List)
			modules.GET("/:id", moduleHandler.Get)
			modules.POST("", authenticated, contentWriters, moduleHandler.Create)
			modules.PUT("/:id", authenticated, contentWriters, moduleHandler.Update)
			modules.DELETE("/:id", authenticated, contentWriters, moduleHandler.Delete)
		}

		lessons := api.Group("/lessons")
		{
			lessons.GET("", lessonHandler.List)
			lessons.GET("/:id", lessonHandler.Get)
			lessons.POST("", authenticated, contentWriters, lessonHandler.Create)
			lessons.PUT("/:id", authenticated, contentWriters, lessonHandler.Update)
			lessons.DELETE("/:id", authenticated, contentWriters, lessonHandler.Delete)
		}

		users := api.Group("/users", authenticated)
		{
			users.GET("/me", userHandler.Me)
			users.PUT("/me", userHandler.UpdateMe)
			users.GET("", adminOnly, userHandler.List)
			users.POST("", adminOnly, userHandler.Create)
			users.GET("/:id", adminOnly, userHandler.Get)
			users.PUT("/:id", adminOnly, userHandler.Update)
			users.DELETE("/:id", adminOnly, userHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
