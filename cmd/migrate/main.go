package main

import (
	"github.com/sirupsen/logrus" // Logrus for structured logging

	"voting_system/internal/config" // Custom import path (Config)
	"voting_system/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	conn, err := db.Open(cfg) // Connect with the configured driver
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
}
