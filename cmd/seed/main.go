// Command seed populates a development database with demo data.
package main

import (
	"flag"
	"log"

	"warble/internal/config"
	"warble/internal/database"
	"warble/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	messages := flag.Int("messages", 5, "messages per user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.Users = *users
	opts.MessagesPerUser = *messages

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users with %d messages each", opts.Users, opts.MessagesPerUser)
}
