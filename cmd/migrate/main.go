package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/config"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/database"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// Migrates the sandbox database without starting the servers.
func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Open(context.Background(), cfg.SandboxDatabaseURL, database.Options{Verbose: true})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := sandbox.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
