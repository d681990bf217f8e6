package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	"github.com/pawfectpets/pawfect-api/internal/config"
	dbpkg "github.com/pawfectpets/pawfect-api/internal/db"
	"github.com/pawfectpets/pawfect-api/internal/logger"
	"github.com/pawfectpets/pawfect-api/internal/metrics"
	"github.com/pawfectpets/pawfect-api/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.InsecureJWTSecret() {
		log.Warn("JWT_SECRET is not set, using an insecure default", zap.String("mode", cfg.GinMode))
	}

	db := dbpkg.NewDB(cfg, log)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	storage, payments, completer, rdb := routes.Optional(cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Audit:    auditDispatcher,
		Metrics:  metrics.New(),
		Storage:  storage,
		Payments: payments,
		LLM:      completer,
		Redis:    rdb,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
