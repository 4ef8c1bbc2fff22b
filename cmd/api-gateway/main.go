package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusflow/course-select-api/api/swagger"
	"github.com/campusflow/course-select-api/internal/handler"
	"github.com/campusflow/course-select-api/internal/middleware"
	"github.com/campusflow/course-select-api/internal/repository"
	"github.com/campusflow/course-select-api/internal/service"
	"github.com/campusflow/course-select-api/pkg/cache"
	"github.com/campusflow/course-select-api/pkg/config"
	"github.com/campusflow/course-select-api/pkg/database"
	"github.com/campusflow/course-select-api/pkg/export"
	"github.com/campusflow/course-select-api/pkg/logger"
	corsmiddleware "github.com/campusflow/course-select-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusflow/course-select-api/pkg/middleware/requestid"
)

// @title Course Select API
// @version 0.1.0
// @description Student course enrollment backend
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
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and captcha degraded", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	store := repository.NewStore(db, cfg.Enrollment.TxRetries)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)

	detector := service.ConflictDetector{RespectWeekParity: cfg.Enrollment.RespectWeekParity}
	capacity := service.CapacityChecker{Policy: cfg.Enrollment.CapacityPolicy}

	enrollmentSvc := service.NewEnrollmentService(store, enrollmentRepo, courseRepo, sessionRepo, studentRepo, detector, capacity, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, sessionRepo, enrollmentRepo, cacheSvc, logr)
	graduationSvc := service.NewGraduationService(enrollmentRepo, courseRepo, courseSvc, cfg.Graduation.Requirements, logr)
	batchSvc := service.NewBatchService(batchRepo, logr)
	captchaSvc := service.NewCaptchaService(cacheRepo, cfg.Captcha.TTL, cfg.Captcha.Length, cfg.Captcha.Enabled, logr)
	authSvc := service.NewAuthService(studentRepo, captchaSvc, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})

	authHandler := handler.NewAuthHandler(authSvc, captchaSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc, export.NewCSVExporter(), export.NewPDFExporter())
	graduationHandler := handler.NewGraduationHandler(graduationSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.GET("/captcha", authHandler.Captcha)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		courses := api.Group("/courses", middleware.OptionalJWT(authSvc))
		{
			courses.GET("", courseHandler.Search)
			courses.GET("/attributes/:name", courseHandler.AttributeValues)
		}

		enrollments := api.Group("/enrollments", middleware.JWT(authSvc))
		{
			enrollments.POST("", enrollmentHandler.Enroll)
			enrollments.POST("/drop", enrollmentHandler.Drop)
			enrollments.GET("/my", enrollmentHandler.My)
			enrollments.GET("/my/export", enrollmentHandler.Export)
		}

		graduation := api.Group("/graduation", middleware.JWT(authSvc))
		{
			graduation.GET("/status", graduationHandler.Status)
			graduation.GET("/recommendations", graduationHandler.Recommendations)
		}

		batches := api.Group("/elective-batches")
		{
			batches.GET("", batchHandler.List)
			batches.GET("/:id", batchHandler.Get)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
