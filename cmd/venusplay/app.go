package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/venusplay/internal/cache"
	"github.com/amaumene/venusplay/internal/catalog"
	"github.com/amaumene/venusplay/internal/config"
	"github.com/amaumene/venusplay/internal/constants"
	"github.com/amaumene/venusplay/internal/handlers"
	"github.com/amaumene/venusplay/internal/middleware"
	"github.com/amaumene/venusplay/internal/upstream"
	"github.com/amaumene/venusplay/pkg/logger"
	"github.com/amaumene/venusplay/pkg/security"
)

func newLogger(cfg *config.Config) logger.Logger {
	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if !logger.IsKnownLevel(cfg.Log.Level) {
		log.Warnf("[App] warning: unknown log level '%s', defaulting to info", cfg.Log.Level)
	}
	return log
}

func newRouter(log logger.Logger, h *handlers.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())
	r.Use(middleware.Recovery(log))

	h.RegisterRoutes(r)
	return r
}

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg)

	client := upstream.NewClient(upstream.Options{
		BaseURL:        cfg.Upstream.BaseURL,
		Username:       cfg.Upstream.Username,
		Password:       cfg.Upstream.Password,
		Timeout:        cfg.Upstream.Timeout,
		Retries:        cfg.Upstream.Retries,
		RetryDelay:     cfg.Upstream.RetryDelay,
		MaxConnections: cfg.Upstream.MaxConnections,
		RateLimit:      cfg.Upstream.RateLimit,
		RateBurst:      cfg.Upstream.RateBurst,
	}, log)
	defer client.Close()

	store := cache.New(cfg.Cache.Size)
	store.StartCleanup(ctx, constants.CacheCleanupInterval, cfg.MaxTTL())

	svc := catalog.NewService(upstream.NewCached(client, store, log), catalog.Config{
		PageSize:     cfg.Catalog.PageSize,
		ListingTTL:   cfg.Cache.ListingTTL,
		DetailTTL:    cfg.Cache.DetailTTL,
		AggregateTTL: cfg.Cache.AggregateTTL,
		DeriveYear:   cfg.Catalog.DeriveYear,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(log, handlers.New(svc, log)),
		ReadHeaderTimeout: constants.UpstreamTimeout,
	}

	log.Infof("[App] upstream %s as %s", cfg.Upstream.BaseURL, security.MaskSecret(cfg.Upstream.Username))

	errCh := make(chan error, 1)
	go func() {
		log.Infof("[App] starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("[App] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[App] graceful shutdown failed: %v", err)
		return err
	}
	return nil
}
