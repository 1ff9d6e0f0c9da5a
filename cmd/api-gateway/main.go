package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorhq/onboarding-api/api/swagger"
	"github.com/tutorhq/onboarding-api/internal/handler"
	"github.com/tutorhq/onboarding-api/internal/middleware"
	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/internal/repository"
	"github.com/tutorhq/onboarding-api/internal/service"
	"github.com/tutorhq/onboarding-api/pkg/cache"
	"github.com/tutorhq/onboarding-api/pkg/config"
	"github.com/tutorhq/onboarding-api/pkg/database"
	"github.com/tutorhq/onboarding-api/pkg/logger"
	corsmiddleware "github.com/tutorhq/onboarding-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorhq/onboarding-api/pkg/middleware/requestid"
)

// @title Tutor Onboarding Scheduling API
// @version 0.1.0
// @description Availability rules, slot generation and interview bookings
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// A missing cache degrades slot queries to recompute, it is not fatal.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, slot caching disabled", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	ruleRepo := repository.NewRuleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(cfg.JWT)
	availabilitySvc := service.NewAvailabilityService(ruleRepo, cacheRepo, metricsSvc, cfg.Scheduling, validate, logr)
	ruleSvc := service.NewRuleService(ruleRepo, availabilitySvc, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, ruleRepo, availabilitySvc, validate, logr)
	exportSvc := service.NewExportService(availabilitySvc, logr)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc, exportSvc)
	ruleHandler := handler.NewRuleHandler(ruleSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	staffOrSelf := middleware.RBAC(string(models.RoleAdmin), string(models.RoleStaff), "SELF")

	owners := api.Group("/owners/:kind/:id", staffOrSelf)
	{
		owners.GET("/slots", availabilityHandler.ListSlots)
		if cfg.Exports.Enabled {
			owners.GET("/slots/export", availabilityHandler.ExportSlots)
		}
		owners.GET("/rules", ruleHandler.List)
		owners.POST("/rules/one-off", ruleHandler.CreateOneOff)
		owners.POST("/rules/exclusions", ruleHandler.CreateExclusion)
		owners.PUT("/rules/standard", ruleHandler.ReplaceStandard)
		owners.PATCH("/rules/:ruleId", ruleHandler.Update)
		owners.DELETE("/rules/:ruleId", ruleHandler.Delete)
	}

	reviewers := api.Group("/reviewers/:id")
	{
		// Tutors book against reviewers, so booking routes are open to any
		// authenticated role; reads stay staff-or-self.
		reviewers.POST("/bookings/validate", bookingHandler.Validate)
		reviewers.POST("/bookings", bookingHandler.Create)
		reviewers.GET("/bookings", staffOrSelf, bookingHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
