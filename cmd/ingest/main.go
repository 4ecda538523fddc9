package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"fxsignal_backend/internal/app/di"
	"fxsignal_backend/internal/platform/config"
	"fxsignal_backend/internal/platform/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	cfg := config.Load()
	logger.Init("fxsignal-ingest", cfg.LogLevel, cfg.LogFile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ing, err := di.NewIngestor(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	res, err := ing.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("ingest ok: provider=%s succeeded=%d failed=%d candles=%v",
		ing.Provider, res.Succeeded, res.Failed, ing.IngestedCounts())
}
