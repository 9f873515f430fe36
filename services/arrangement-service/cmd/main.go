package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/burakmert236/arrangement/common/config"
	"github.com/burakmert236/arrangement/services/arrangement-service/app"
)

func main() {
	configPath := flag.String("config", "../config", "directory holding config.yaml")
	tournamentId := flag.String("tournament", "", "tournament to open on start")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting arrangement service in %s mode", cfg.Server.Environment)
	log.Printf("Using DynamoDB table: %s", cfg.DynamoDB.TableName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, appErr := app.New(ctx, cfg)
	if appErr != nil {
		log.Fatalf("Failed to init application: %v", appErr)
	}

	if appErr := application.Start(ctx, *tournamentId); appErr != nil {
		application.Stop()
		log.Fatalf("Failed to start application: %v", appErr)
	}

	<-ctx.Done()

	log.Println("Shutting down...")
	application.Stop()
	log.Println("Server stopped")
}
