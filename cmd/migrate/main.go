// Command migrate creates or updates the database schema and exits.
package main

import (
	"log"
	"log/slog"

	"portfolio_ledger/internal/app/di"
	"portfolio_ledger/internal/config"
	"portfolio_ledger/internal/platform/db"
)

func main() {
	cfg := config.MustLoad()

	dbCfg := cfg.DB
	dbCfg.RunMigrations = true
	gdb, err := db.Open(dbCfg, di.Models()...)
	if err != nil {
		log.Fatal("migrate failed: ", err)
	}

	sqlDB, err := gdb.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("migrate ok", "driver", dbCfg.Driver, "tables", len(di.Models()))
}
