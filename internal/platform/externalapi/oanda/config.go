// Package oanda provides a client for the OANDA v20 REST candles endpoint.
package oanda

import (
	"strings"
	"time"
)

const (
	PracticeURL = "https://api-fxpractice.oanda.com"
	LiveURL     = "https://api-fxtrade.oanda.com"
)

// Config holds configuration for the OANDA API client.
type Config struct {
	APIKey  string        // Personal access token
	Env     string        // "practice" or "live"
	BaseURL string        // Overrides the Env derived URL (tests)
	Timeout time.Duration // HTTP request timeout
}

// NewConfig derives the base URL from env. Anything but "live" uses the practice server.
func NewConfig(apiKey, env string) Config {
	env = strings.ToLower(strings.TrimSpace(env))
	base := PracticeURL
	if env == "live" {
		base = LiveURL
	} else {
		env = "practice"
	}
	return Config{APIKey: apiKey, Env: env, BaseURL: base, Timeout: 12 * time.Second}
}
