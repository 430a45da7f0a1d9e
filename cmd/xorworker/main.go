// cmd/xorworker/main.go
//
// XOR verification batch worker. Runs one pass over all applications
// awaiting verification and exits; scheduling (cron, systemd timer) is
// external. The deployment runs a single instance at a time.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/database"
	"github.com/ynstek/yns-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	notificationService := services.NewNotificationService(cfg)

	verificationService := services.NewVerificationService(db, storageService, notificationService, cfg.Verification)

	// One pass per invocation, bounded so a hung tool cannot pin the
	// worker past its schedule slot.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	// SIGTERM aborts the in-flight item; already-committed verdicts stand.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logrus.Warn("shutdown signal received, aborting verification pass")
		cancel()
	}()

	summary, err := verificationService.Run(ctx)
	if err != nil {
		log.Fatal("Verification pass failed:", err)
	}

	logrus.WithFields(logrus.Fields{
		"scanned": summary.Scanned,
		"passed":  summary.Passed,
		"failed":  summary.Failed,
		"errors":  summary.Errors,
	}).Info("worker exiting")

	if summary.Errors > 0 {
		os.Exit(1)
	}
}
