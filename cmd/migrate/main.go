package main

import (
	"onesi/internal/config" // Custom import path (Config)
	"onesi/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if cfg.DBDriver == config.DriverMemory {
		logrus.Fatal("nothing to migrate for DB_DRIVER=memory")
	}
	conn, err := db.Open(cfg) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("%v", err) // Log fatal error if migration fails
	}
}
