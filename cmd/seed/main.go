package main

import (
	"go.uber.org/zap"

	"github.com/pawfectpets/pawfect-api/internal/config"
	dbpkg "github.com/pawfectpets/pawfect-api/internal/db"
	"github.com/pawfectpets/pawfect-api/internal/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer log.Sync()

	db := dbpkg.NewDB(cfg, log)

	if err := dbpkg.Seed(db); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("database seeded",
		zap.String("admin", "admin@pawfectpets.com"),
		zap.String("user", "user@pawfectpets.com"),
	)
}
