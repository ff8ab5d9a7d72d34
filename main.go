package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio/config"
	"studio/database"
	"studio/metrics"
	"studio/routers"
	"studio/services"
	"studio/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	cfg := config.AppConfig
	db := database.Database.Db

	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.SaltRound); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	if err := services.Init(cfg, db); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	metrics.Register()

	sweeper, err := utils.StartSweepScheduler(services.App.Orchestrator, cfg.SweepSchedule, cfg.AttemptTTL)
	if err != nil {
		log.Fatalf("Invalid SWEEP_SCHEDULE %q: %v", cfg.SweepSchedule, err)
	}

	app := routers.NewApp()

	// Start server non-blocking
	go func() {
		log.Printf("Server is running on port %s (payments: %s, mail: %s)", cfg.Port, cfg.Payment.Kind, cfg.Mail.Kind)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	<-sweeper.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
