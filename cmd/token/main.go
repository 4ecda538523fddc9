// Command token はダッシュボードなどのAPIクライアント用にJWTを発行します。
//
//	go run ./cmd/token -client dashboard -ttl 720h
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fxsignal_backend/internal/platform/config"
	jwtmw "fxsignal_backend/internal/platform/jwt"
)

func main() {
	client := flag.String("client", "", "client name stored in the token subject")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	cfg := config.Load()

	token, err := jwtmw.NewGenerator(cfg.JWTSecret, *ttl).GenerateToken(*client)
	if err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
