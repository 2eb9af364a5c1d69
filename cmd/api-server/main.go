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

	_ "github.com/kantah-go/arsip-vital-api/api/swagger"
	"github.com/kantah-go/arsip-vital-api/internal/handler"
	"github.com/kantah-go/arsip-vital-api/internal/middleware"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/repository"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	"github.com/kantah-go/arsip-vital-api/pkg/cache"
	"github.com/kantah-go/arsip-vital-api/pkg/config"
	"github.com/kantah-go/arsip-vital-api/pkg/database"
	"github.com/kantah-go/arsip-vital-api/pkg/export"
	"github.com/kantah-go/arsip-vital-api/pkg/jobs"
	"github.com/kantah-go/arsip-vital-api/pkg/logger"
	corsmiddleware "github.com/kantah-go/arsip-vital-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kantah-go/arsip-vital-api/pkg/middleware/requestid"
	"github.com/kantah-go/arsip-vital-api/pkg/qr"
	"github.com/kantah-go/arsip-vital-api/pkg/storage"
)

// @title Arsip Vital API
// @version 1.0.0
// @description Records management for land certificate archives
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and cross-instance broadcasts disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Fatal("upload storage init failed", zap.Error(err))
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("export storage init failed", zap.Error(err))
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewArchiveEntryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	documentRepos := map[models.DocumentKind]*repository.DocumentRepository{
		models.KindBukuTanah: repository.NewDocumentRepository(db, models.KindBukuTanah),
		models.KindSuratUkur: repository.NewDocumentRepository(db, models.KindSuratUkur),
		models.KindWarkah:    repository.NewDocumentRepository(db, models.KindWarkah),
	}

	// services
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	notifierParams := service.NotifierServiceParams{Metrics: metrics, Logger: logr}
	if redisClient != nil {
		notifierParams.Bridge = cacheRepo
	}
	notifier := service.NewNotifierService(notifierParams)
	go notifier.Run(ctx)

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Repo:     entryRepo,
		Cache:    cacheSvc,
		Notifier: notifier,
		Logger:   logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:           cfg.Dashboard.CacheTTL,
			UseCreatedAt:       cfg.Counts.UseCreatedAt,
			PendingConventions: cfg.Counts.PendingPredicates,
		},
	})

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "arsip-vital-api",
	})

	qrGen := qr.NewGenerator(cfg.BaseURL, cfg.QR.Size)

	documentSvcs := make(map[models.DocumentKind]*service.DocumentService, len(documentRepos))
	qrQueue := jobs.NewQueue("qr-pregenerate", func(ctx context.Context, task jobs.Task) error {
		if task.Kind != service.QRTaskKind {
			return nil
		}
		payload, ok := task.Payload.(service.QRTaskPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", task.Payload)
		}
		svc, ok := documentSvcs[payload.Kind]
		if !ok {
			return fmt.Errorf("unknown document kind %q", payload.Kind)
		}
		return svc.GenerateAndStoreQR(ctx, payload.ID)
	}, jobs.QueueConfig{Workers: cfg.QR.Workers, Logger: logr})
	qrQueue.Start(ctx)
	defer qrQueue.Stop()

	for kind, repo := range documentRepos {
		documentSvcs[kind] = service.NewDocumentService(service.DocumentServiceParams{
			Kind:    kind,
			Repo:    repo,
			Storage: uploadStore,
			QR:      qrGen,
			Queue:   qrQueue,
			Logger:  logr,
		})
	}

	existenceCheckers := make(map[models.DocumentKind]service.DocumentExistenceChecker, len(documentRepos))
	datasetSources := make(map[models.DocumentKind]service.DocumentDatasetSource, len(documentRepos))
	for kind, repo := range documentRepos {
		existenceCheckers[kind] = repo
		datasetSources[kind] = repo
	}

	entrySvc := service.NewArchiveEntryService(service.ArchiveEntryServiceParams{
		Repo:        entryRepo,
		Documents:   existenceCheckers,
		Broadcaster: dashboard,
		Logger:      logr,
	})

	locationSvc := service.NewLocationService(service.LocationServiceParams{
		Repo:   locationRepo,
		Logger: logr,
	})

	exportSvc := service.NewExportService(service.ExportServiceParams{
		Documents: datasetSources,
		Details:   entryRepo,
		CSV:       export.NewCSVExporter(),
		DOCX:      export.NewDOCXExporter(),
		PDF:       export.NewPDFExporter(),
		Store:     exportStore,
		Signer:    storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		Logger:    logr,
	})

	go runExportCleanup(ctx, exportStore, cfg.Exports.CleanupInterval, cfg.Exports.SignedURLTTL, logr)

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	entryHandler := handler.NewArchiveEntryHandler(entrySvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboard, metrics)
	eventsHandler := handler.NewEventsHandler(notifier, dashboard)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)
	documentHandlers := make(map[models.DocumentKind]*handler.DocumentHandler, len(documentSvcs))
	for kind, svc := range documentSvcs {
		documentHandlers[kind] = handler.NewDocumentHandler(svc, uploadStore)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.POST("/auth/change-password", authHandler.ChangePassword)
	protected.GET("/auth/me", authHandler.Me)

	entries := protected.Group("/daftar-arsip")
	entries.GET("", entryHandler.List)
	entries.GET("/detail", entryHandler.ListDetails)
	entries.POST("", entryHandler.Create)
	entries.GET("/:id", entryHandler.Get)
	entries.GET("/:id/detail", entryHandler.Detail)
	entries.PUT("/:id", entryHandler.Update)
	entries.POST("/:id/refresh-snapshot", entryHandler.RefreshSnapshot)
	entries.DELETE("/:id", adminOnly, entryHandler.Delete)

	for kind, h := range documentHandlers {
		group := protected.Group("/" + kind.Slug())
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", adminOnly, h.Delete)
		group.GET("/:id/qr", h.QR)
		group.GET("/:id/qr/download", h.QRDownload)
	}

	locations := protected.Group("/lokasi")
	locations.GET("", locationHandler.List)
	locations.POST("", locationHandler.Create)
	locations.GET("/:id", locationHandler.Get)
	locations.PUT("/:id", locationHandler.Update)
	locations.DELETE("/:id", adminOnly, locationHandler.Delete)

	protected.GET("/dashboard/counts", dashboardHandler.Counts)
	protected.GET("/dashboard/stats", dashboardHandler.Stats)
	protected.GET("/dashboard/events", eventsHandler.Counts)

	// the download token is self-authenticating, so the endpoint stays
	// outside the JWT group for direct browser downloads
	api.GET("/exports/download", exportHandler.Download)

	exports := protected.Group("/exports")
	exports.GET("/daftar-arsip", exportHandler.ArchiveIndex)
	exports.GET("/:kind", exportHandler.Documents)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// runExportCleanup prunes rendered export files past their signed URL TTL.
func runExportCleanup(ctx context.Context, store *storage.LocalStorage, interval, ttl time.Duration, logr *zap.Logger) {
	if interval <= 0 || ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.CleanupOlderThan(ttl)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				logr.Info("export files pruned", zap.Int("count", len(deleted)))
			}
		}
	}
}
