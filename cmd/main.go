package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"our-recipes/cmd/config"
	migration "our-recipes/cmd/database/migrate"
	"our-recipes/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	// Context to handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		log.Errorf("Error connecting database, store routes will answer 503: %v", err)
		db = nil
	} else if err := migration.Migrate(db); err != nil {
		log.Errorf("Error migrating database, store routes will answer 503: %v", err)
		db = nil
	}

	app, err := config.NewApp(ctx, db)
	if err != nil {
		log.Fatalf("Error creating app: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	log.Info("Server gracefully stopped")
}
