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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Mohd-Imad/burial-records-management-FE/api/swagger"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/handler"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/middleware"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/repository"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/service"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/cache"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/config"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/export"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/jobs"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/logger"
	corsmiddleware "github.com/Mohd-Imad/burial-records-management-FE/pkg/middleware/cors"
	reqidmiddleware "github.com/Mohd-Imad/burial-records-management-FE/pkg/middleware/requestid"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/session"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/storage"
)

// @title Burial Permit Console API
// @version 1.0.0
// @description Data-flow layer of the burial-permit records console
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}
	var store repository.KeyValue
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		redisStore := repository.NewRedisStore(client, cfg.Store.Prefix, 0, logr)
		defer redisStore.Close() //nolint:errcheck
		store = redisStore
		checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx, client) }
	default:
		fileStore, err := storage.NewFileKV(cfg.Store.Dir, cfg.Store.Prefix)
		if err != nil {
			logr.Sugar().Fatalw("failed to open local store", "error", err)
		}
		store = fileStore
	}

	metrics := service.NewMetricsService()
	notifier := service.NewNotificationService(0, logr)

	sess := session.New(store, session.Options{LoginPath: cfg.Backend.LoginPath, Logger: logr})
	response.LoginRedirect = sess.LoginPath()

	client := httpclient.New(httpclient.Config{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    cfg.Backend.Timeout,
		AuthHeader: cfg.Backend.AuthHeader,
	}, sess, httpclient.WithObserver(metrics), httpclient.WithLogger(logr))

	permitRepo := repository.NewPermitRepository(client)
	reportRepo := repository.NewReportRepository(client)
	userRepo := repository.NewUserRepository(client)
	draftRepo := repository.NewDraftRepository(store)

	exportFiles, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export directory", "error", err)
	}

	validate := service.NewValidator(nil, time.Local)
	query := service.NewQueryExecutor(permitRepo, service.QueryExecutorConfig{
		PageSize:    cfg.Records.PageSize,
		ExportLimit: cfg.Records.ExportLimit,
		Location:    time.Local,
	}, logr)

	recordsSvc := service.NewRecordsService(query, permitRepo, notifier, logr)
	reportSvc := service.NewReportService(query, reportRepo, notifier, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Reports:  reportRepo,
		Users:    userRepo,
		Notifier: notifier,
		Logger:   logr,
	})
	permitSvc := service.NewPermitService(permitRepo, client.BaseURL(), cfg.Display.DateFormat, logr)
	profileSvc := service.NewProfileService(userRepo, notifier, validate, logr)
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Source:   reportSvc,
		Storage:  exportFiles,
		Notifier: notifier,
		Metrics:  metrics,
		Raster:   export.NewRasterizer(export.ThemeByName(cfg.Display.Theme)),
		Logger:   logr,
		Config: service.ExportConfig{
			DateFormat: cfg.Display.DateFormat,
			ResultTTL:  cfg.Exports.TTL,
		},
	})
	captureSvc := service.NewCaptureService(service.CaptureServiceParams{
		Permits:   permitRepo,
		Drafts:    draftRepo,
		Notifier:  notifier,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config: service.CaptureConfig{
			AutoSave:      cfg.Capture.AutoSave,
			AutoSaveDelay: cfg.Capture.AutoSaveDelay,
			PreviewScan:   cfg.Records.PreviewScan,
			Location:      time.Local,
		},
	})
	defer captureSvc.Close()

	sess.OnSignOut(func(loginPath string) {
		recordsSvc.ClearSelection()
		logr.Info("session ended, operator must sign in again", zap.String("login_path", loginPath))
	})

	sweeper := jobs.NewSweeper("export-cleanup", func(context.Context) error {
		removed, err := exportSvc.Cleanup(cfg.Exports.TTL)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Info("expired exports removed", zap.Int("count", len(removed)))
		}
		return nil
	}, jobs.SweeperConfig{
		Interval:   cfg.Exports.CleanupInterval,
		MaxRetries: 2,
		RunOnStart: true,
		Logger:     logr,
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	sessionHandler := handler.NewSessionHandler(sess)
	notificationHandler := handler.NewNotificationHandler(notifier)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	recordsHandler := handler.NewRecordsHandler(recordsSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	permitHandler := handler.NewPermitHandler(permitSvc)
	captureHandler := handler.NewCaptureHandler(captureSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.Backend.AuthHeader))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/session", sessionHandler.Status)
	r.POST("/session", sessionHandler.Login)
	r.DELETE("/session", sessionHandler.Logout)
	r.GET("/notifications", notificationHandler.Drain)

	secured := r.Group("/")
	secured.Use(middleware.RequireSession(sess))
	{
		secured.GET("dashboard", dashboardHandler.Get)

		records := secured.Group("records")
		records.GET("", recordsHandler.List)
		records.DELETE("", recordsHandler.Delete)
		records.PATCH("filters", recordsHandler.SetFilter)
		records.POST("apply", recordsHandler.Apply)
		records.POST("reset", recordsHandler.Reset)
		records.POST("page/:page", recordsHandler.Page)
		records.POST("selection", recordsHandler.Select)
		records.GET(":id/slip", permitHandler.Slip)

		secured.GET("permits/:id", permitHandler.Detail)

		reports := secured.Group("reports")
		reports.GET("", reportHandler.Get)
		reports.PATCH("filters", reportHandler.SetFilter)
		reports.POST("apply", reportHandler.Apply)
		reports.POST("reset", reportHandler.Reset)
		reports.POST("page/:page", reportHandler.Page)
		reports.GET("export/:format", reportHandler.Export)

		capture := secured.Group("capture")
		capture.GET("", captureHandler.Open)
		capture.PATCH("", captureHandler.Change)
		capture.POST("submit", captureHandler.Submit)
		capture.POST("reset", captureHandler.Reset)

		profile := secured.Group("profile")
		profile.GET("", profileHandler.Get)
		profile.PUT("", profileHandler.Update)
		profile.PUT("password", profileHandler.ChangePassword)
		profile.PUT("image", profileHandler.UploadImage)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}
