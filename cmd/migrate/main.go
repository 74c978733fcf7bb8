// Command migrate runs schema operations for the application database.
// Production deployments apply the schema through this command; the server
// itself never migrates in production.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"warble/internal/config"
	"warble/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|status>")
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

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("schema apply failed: %w", err)
		}
		log.Println("schema applied")
	case "status":
		for _, table := range database.Tables() {
			log.Printf("table %s: exists=%t", table, db.Migrator().HasTable(table))
		}
	default:
		return usage()
	}

	return nil
}
