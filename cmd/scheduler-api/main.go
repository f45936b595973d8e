package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Ghilbi/citcs-schedule-api/api/swagger"
	"github.com/Ghilbi/citcs-schedule-api/internal/handler"
	"github.com/Ghilbi/citcs-schedule-api/internal/middleware"
	"github.com/Ghilbi/citcs-schedule-api/internal/repository"
	"github.com/Ghilbi/citcs-schedule-api/internal/service"
	"github.com/Ghilbi/citcs-schedule-api/pkg/cache"
	"github.com/Ghilbi/citcs-schedule-api/pkg/config"
	"github.com/Ghilbi/citcs-schedule-api/pkg/database"
	"github.com/Ghilbi/citcs-schedule-api/pkg/logger"
	corsmiddleware "github.com/Ghilbi/citcs-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/Ghilbi/citcs-schedule-api/pkg/middleware/requestid"
)

// @title CITCS Schedule API
// @version 0.1.0
// @description Class-scheduling manager with heuristic auto-scheduler and conflict validator
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// validation falls back to uncached scans
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}

	courseRepo := repository.NewCourseRepository(db)
	offeringRepo := repository.NewCourseOfferingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	entryRepo := repository.NewScheduleEntryRepository(db)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	contexts := service.NewScheduleContextBuilder(courseRepo, offeringRepo, entryRepo, logr)
	conflictValidator := service.NewConflictValidator(logr)

	var validationSvc *service.ValidationService
	if redisClient != nil {
		reportCache := repository.NewCacheRepository(redisClient, logr)
		validationSvc = service.NewValidationService(contexts, roomRepo, conflictValidator, reportCache, cfg.Validation.CacheTTL, metricsSvc, logr)
	} else {
		validationSvc = service.NewValidationService(contexts, roomRepo, conflictValidator, nil, cfg.Validation.CacheTTL, metricsSvc, logr)
	}

	schedulerSvc := service.NewAutoSchedulerService(contexts, courseRepo, offeringRepo, roomRepo, entryRepo, entryRepo, validate, metricsSvc, logr, cfg.Scheduler)

	courseSvc := service.NewCourseService(courseRepo, offeringRepo, entryRepo, validationSvc, validate, logr)
	offeringSvc := service.NewCourseOfferingService(offeringRepo, courseRepo, entryRepo, validationSvc, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validationSvc, validate, logr)
	entrySvc := service.NewScheduleEntryService(entryRepo, courseRepo, validationSvc, validate, logr)

	courseHandler := handler.NewCourseHandler(courseSvc)
	offeringHandler := handler.NewCourseOfferingHandler(offeringSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	entryHandler := handler.NewScheduleEntryHandler(entrySvc)
	schedulerHandler := handler.NewSchedulerHandler(schedulerSvc, validationSvc)
	validationHandler := handler.NewValidationHandler(validationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
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
		courses := api.Group("/courses")
		courses.GET("", courseHandler.List)
		courses.POST("", courseHandler.Create)
		courses.GET("/:id", courseHandler.Get)
		courses.PUT("/:id", courseHandler.Update)
		courses.DELETE("/:id", courseHandler.Delete)

		offerings := api.Group("/course-offerings")
		offerings.GET("", offeringHandler.List)
		offerings.POST("", offeringHandler.Create)
		offerings.GET("/:id", offeringHandler.Get)
		offerings.PUT("/:id", offeringHandler.Update)
		offerings.DELETE("/:id", offeringHandler.Delete)

		rooms := api.Group("/rooms")
		rooms.GET("", roomHandler.List)
		rooms.POST("", roomHandler.Create)
		rooms.GET("/columns", roomHandler.Columns)
		rooms.GET("/:id", roomHandler.Get)
		rooms.PUT("/:id", roomHandler.Update)
		rooms.DELETE("/:id", roomHandler.Delete)

		schedules := api.Group("/schedules")
		schedules.GET("", entryHandler.List)
		schedules.POST("", entryHandler.Create)
		schedules.GET("/:id", entryHandler.Get)
		schedules.PUT("/:id", entryHandler.Update)
		schedules.DELETE("/:id", entryHandler.Delete)

		api.POST("/scheduler/run", schedulerHandler.Run)
		api.GET("/validation", validationHandler.Report)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
