package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // NYセッション判定用。コンテナにtzdataがなくても動かす

	"github.com/joho/godotenv"

	"fxsignal_backend/internal/app/di"
	"fxsignal_backend/internal/platform/config"
	"fxsignal_backend/internal/platform/logger"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	cfg := config.Load()
	logger.Init("fxsignal-server", cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := di.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Println("[ERROR] Failed to close resources:", err)
		}
	}()

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.RequireAuth && cfg.JWTSecret == "" {
		log.Println("[WARN] REQUIRE_AUTH is set but JWT_SECRET is empty; every API request will fail.")
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] graceful shutdown failed:", err)
	}
	log.Println("server stopped")
}
