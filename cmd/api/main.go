package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/trainops/attendance-api/api/swagger"
	"github.com/trainops/attendance-api/internal/handler"
	"github.com/trainops/attendance-api/internal/middleware"
	"github.com/trainops/attendance-api/internal/repository"
	"github.com/trainops/attendance-api/internal/service"
	"github.com/trainops/attendance-api/pkg/cache"
	"github.com/trainops/attendance-api/pkg/config"
	"github.com/trainops/attendance-api/pkg/database"
	"github.com/trainops/attendance-api/pkg/logger"
	corsmiddleware "github.com/trainops/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/trainops/attendance-api/pkg/middleware/requestid"
)

// @title Training Attendance API
// @version 1.0.0
// @description Trainings, participants and attendance status reporting
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	trainingRepo := repository.NewTrainingRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	removalRepo := repository.NewRemovalRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)

	authSvc := service.NewAuthService(userRepo, sessionRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	metricsSvc := service.NewMetricsService()
	trainingSvc := service.NewTrainingService(trainingRepo, enrollmentRepo, removalRepo, nil, logr)
	participantSvc := service.NewParticipantService(participantRepo, nil, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, trainingRepo, enrollmentRepo, nil, logr)
	statusSvc := service.NewStatusService(trainingRepo, enrollmentRepo, attendanceRepo, metricsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	trainingHandler := handler.NewTrainingHandler(trainingSvc)
	participantHandler := handler.NewParticipantHandler(participantSvc, cfg.Import.MaxFileSizeBytes)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	statusHandler := handler.NewStatusHandler(statusSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
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
		if err := db.Ping(); err != nil {
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
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/trainings", trainingHandler.List)
		protected.POST("/trainings", trainingHandler.Create)
		protected.GET("/trainings/:id", trainingHandler.Get)
		protected.PUT("/trainings/:id", trainingHandler.Update)
		protected.DELETE("/trainings/:id", trainingHandler.Delete)
		protected.POST("/trainings/:id/participants", trainingHandler.Assign)
		protected.DELETE("/trainings/:id/participants", trainingHandler.Remove)
		protected.GET("/trainings/:id/removals", trainingHandler.Removals)

		protected.POST("/trainings/:id/attendance", attendanceHandler.Record)
		protected.GET("/trainings/:id/attendance", attendanceHandler.List)

		protected.GET("/trainings/:id/status", statusHandler.Matrix)
		protected.GET("/trainings/:id/status/export", statusHandler.Export)

		protected.GET("/participants", participantHandler.List)
		protected.POST("/participants", participantHandler.Create)
		protected.POST("/participants/import", participantHandler.Import)
		protected.GET("/participants/:id", participantHandler.Get)
		protected.PUT("/participants/:id", participantHandler.Update)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
