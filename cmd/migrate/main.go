package main

import (
	"errors"
	"log"

	"examgen/internal/config"
	"examgen/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	l := logger.Get()
	defer logger.Sync()

	m, err := migrate.New("file://database/migrations", "sqlite://"+cfg.Database.Path)
	if err != nil {
		l.Fatal("Failed to initialize migrations", zap.Error(err))
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			l.Info("Database schema already up to date")
			return
		}
		l.Fatal("Failed to run migrations", zap.Error(err))
	}

	l.Info("Migrations applied", zap.String("database", cfg.Database.Path))
}
