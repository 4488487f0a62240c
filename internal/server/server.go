package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/wardenproject/warden/internal/admin"
	"github.com/wardenproject/warden/internal/api/middleware"
	"github.com/wardenproject/warden/internal/config"
	"github.com/wardenproject/warden/internal/database"
	"github.com/wardenproject/warden/internal/metrics"
	"github.com/wardenproject/warden/internal/services"
	"github.com/wardenproject/warden/internal/version"
)

// Server wraps the HTTP engine and shared dependencies for easier testing.
type Server struct {
	Engine *gin.Engine
	cfg    config.Config
}

// New wires up the HTTP router: middleware, health and metrics endpoints,
// and the admin surface over the instance registry.
func New(db *gorm.DB, cfg config.Config, notify *services.NotificationService) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	}

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(cfg.Environment == "development"),
		middleware.AdminResponseHeaders(),
	)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Full()})
	})

	instances := services.NewInstanceService(db)
	router.GET("/api/v1/instances", func(c *gin.Context) {
		names, err := instances.Names(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"instances": names})
	})

	adminHandler := admin.New(admin.Config{
		BasePath:     cfg.AdminBasePath,
		RequireAuth:  cfg.RequireAuth,
		AdminKey:     cfg.AdminKey,
		AdminKeyHash: cfg.AdminKeyHash,
		AllowBearer:  cfg.AllowBearer,
	}, instances, notify)
	router.Use(adminHandler.Middleware())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return &Server{Engine: router, cfg: cfg}, nil
}

// Run starts the HTTP server with proper shutdown semantics.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.HTTPPort),
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
