// Package alphavantage provides a client for the Alpha Vantage FX time series API.
package alphavantage

import "time"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout time.Duration // HTTP request timeout
}

// NewConfig fills the default base URL when baseURL is empty.
func NewConfig(apiKey, baseURL string) Config {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return Config{APIKey: apiKey, BaseURL: baseURL, Timeout: 15 * time.Second}
}
