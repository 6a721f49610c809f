package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eduwaly/eduwaly-api/api/swagger"
	"github.com/eduwaly/eduwaly-api/internal/bootstrap"
	"github.com/eduwaly/eduwaly-api/internal/handler"
	"github.com/eduwaly/eduwaly-api/internal/middleware"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/pkg/cache"
	"github.com/eduwaly/eduwaly-api/pkg/config"
	"github.com/eduwaly/eduwaly-api/pkg/database"
	"github.com/eduwaly/eduwaly-api/pkg/logger"
	corsmiddleware "github.com/eduwaly/eduwaly-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduwaly/eduwaly-api/pkg/middleware/requestid"
)

// @title Eduwaly Workload API
// @version 1.0.0
// @description Weekly teaching timetables and workload totals per teacher and semester
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.MigrateUp(db.DB, logr); err != nil {
		logr.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, workload cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	services, err := bootstrap.New(cfg, db, redisClient, logr)
	if err != nil {
		logr.Fatal("failed to build services", zap.Error(err))
	}
	if cfg.Reports.Enabled {
		stopWorkers := services.StartBackground(ctx)
		defer stopWorkers()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(services.Metrics))

	registerRoutes(r, cfg, services, handler.NewMetricsHandler(services.Metrics, db), logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, services *bootstrap.Services, metricsHandler *handler.MetricsHandler, logr *zap.Logger) {
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(services.Auth)
	teacherHandler := handler.NewTeacherHandler(services.Teachers)
	workloadHandler := handler.NewWorkloadHandler(services.Workload, services.Export)
	reportHandler := handler.NewReportHandler(services.Reports)
	configurationHandler := handler.NewConfigurationHandler(services.Configuration)

	admins := middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)
	adminsOrSelf := middleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin), middleware.SelfTeacher)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", authHandler.Login)
	api.GET("/export/:token", reportHandler.DownloadReport)

	secured := api.Group("")
	secured.Use(middleware.JWT(services.Auth))
	secured.GET("/auth/me", authHandler.Me)

	secured.GET("/teachers", admins, teacherHandler.List)
	secured.GET("/teachers/:id/workload", adminsOrSelf, workloadHandler.TeacherWorkload)
	secured.GET("/teachers/:id/workload/export", adminsOrSelf, middleware.Audit(logr, "workload.export", "teacher_workload"), workloadHandler.ExportWorkload)
	secured.GET("/teachers/:id/workload/annual", adminsOrSelf, workloadHandler.AnnualWorkload)
	secured.DELETE("/teachers/:id/workload/cache", admins, middleware.Audit(logr, "workload.cache.invalidate", "teacher_workload"), workloadHandler.InvalidateWorkloadCache)
	secured.GET("/workload/overview", admins, workloadHandler.Overview)

	reports := secured.Group("/reports")
	reports.POST("/workload", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher), middleware.Audit(logr, "report.create", "workload_report"), reportHandler.GenerateWorkload)
	reports.GET("/status/:id", reportHandler.ReportStatus)

	configuration := secured.Group("/configuration", admins)
	configuration.GET("/signatory", configurationHandler.GetSignatory)
	configuration.PUT("/signatory", middleware.Audit(logr, "signatory.update", "configuration"), configurationHandler.UpdateSignatory)
}
