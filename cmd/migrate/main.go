// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"shayarihub/internal/config"
	"shayarihub/internal/database"
	"shayarihub/internal/middleware"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := gorm.Open(database.Dialector(cfg), database.GormConfig())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		// Production servers never migrate on boot; this is their path.
		return database.Migrate(db)
	case "status":
		for _, m := range database.PersistentModels() {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				return fmt.Errorf("parse model: %w", err)
			}
			present := db.Migrator().HasTable(m)
			middleware.Logger.Info("table", "name", stmt.Schema.Table, "present", present)
		}
		return nil
	default:
		return usage()
	}
}
