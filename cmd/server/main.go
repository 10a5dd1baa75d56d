package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toolhub/internal/api"
	"toolhub/internal/api/middleware"
	"toolhub/internal/database"
	"toolhub/pkg/factory"
	"toolhub/pkg/tracing"
)

func main() {
	appFactory, err := factory.NewFactory()
	if err != nil {
		fmt.Printf("Factory oluşturulamadı: %v\n", err)
		os.Exit(1)
	}

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()
	db := appFactory.GetDB()

	defer db.Close()

	log.Info("Uygulama başlatılıyor", map[string]interface{}{"env": cfg.AppEnv})

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(context.Background(), "toolhub", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal("Tracing başlatılamadı", map[string]interface{}{"error": err.Error()})
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Error("Tracing kapatılamadı", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	migrationService := database.NewMigrationService(db, log)
	if err := migrationService.RunMigrations(); err != nil {
		log.Fatal("Migrationlar uygulanamadı", map[string]interface{}{"error": err.Error()})
	}

	recomputePool := appFactory.GetRecomputePool()
	recomputePool.Start()
	defer recomputePool.Stop()

	authService := appFactory.GetAuthService()
	userService := appFactory.GetUserService()
	toolService := appFactory.GetToolService()
	ratingService := appFactory.GetRatingService()
	bookmarkService := appFactory.GetBookmarkService()
	auditLogService := appFactory.GetAuditLogService()

	authHandler := api.NewAuthHandler(authService, log)
	userHandler := api.NewUserHandler(userService, authService, log)
	toolHandler := api.NewToolHandler(toolService, authService, log)
	ratingHandler := api.NewRatingHandler(ratingService, authService, log)
	bookmarkHandler := api.NewBookmarkHandler(bookmarkService, authService, log)
	auditLogHandler := api.NewAuditLogHandler(auditLogService, authService, log)
	cacheHandler := api.NewCacheHandler(appFactory.GetCache(), appFactory.GetWarmUpManager(), authService, log)
	healthHandler := api.NewHealthHandler(appFactory, log)

	mux := http.NewServeMux()

	authHandler.RegisterRoutes(mux)
	userHandler.RegisterRoutes(mux)
	toolHandler.RegisterRoutes(mux)
	ratingHandler.RegisterRoutes(mux)
	bookmarkHandler.RegisterRoutes(mux)
	auditLogHandler.RegisterRoutes(mux)
	cacheHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ToolHub API'ye Hoş Geldiniz!"))
	})

	handler := middleware.MetricsMiddleware(mux)
	if cfg.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("HTTP sunucusu başlatılıyor", map[string]interface{}{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP sunucusu başlatılamadı", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Prime the hot catalog views after startup
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := appFactory.GetWarmUpManager().WarmUpCatalog(ctx); err != nil {
			log.Warn("Katalog warm-up başarısız", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Sunucu kapatılıyor...", map[string]interface{}{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Sunucu kapatılırken hata oluştu", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Sunucu başarıyla kapatıldı", map[string]interface{}{})
}
