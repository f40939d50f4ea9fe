// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"os"
	"time"
)

// Config is the environment-driven service configuration.
//
// Environment variables:
//
//	PORT               - HTTP server port (default: 8080)
//	INSTANCE_ID        - deployment instance identifier
//	JWT_SECRET         - secret for trainee token signing/validation
//	DATABASE_URL       - PostgreSQL connection string for the analytics
//	                     event store (optional; events dropped if unset)
//	RATE_LIMIT_CONFIG  - path to a YAML tier override file (optional)
//	FAULT_WEBHOOK_URL  - external exception-tracking endpoint (optional)
//	TOKEN_TTL          - lifetime of issued trainee tokens (default: 1h)
//	LOG_LEVEL          - minimum log level (default: INFO)
type Config struct {
	Port                string
	InstanceID          string
	JWTSecret           []byte
	DatabaseURL         string
	RateLimitConfigPath string
	FaultWebhookURL     string
	TokenTTL            time.Duration
}

// LoadConfig reads configuration from the environment
func LoadConfig() Config {
	tokenTTL := time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			tokenTTL = d
		}
	}

	return Config{
		Port:                getEnv("PORT", "8080"),
		InstanceID:          getEnv("INSTANCE_ID", "unknown"),
		JWTSecret:           []byte(os.Getenv("JWT_SECRET")),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RateLimitConfigPath: os.Getenv("RATE_LIMIT_CONFIG"),
		FaultWebhookURL:     os.Getenv("FAULT_WEBHOOK_URL"),
		TokenTTL:            tokenTTL,
	}
}

// getEnv returns the environment value for key or a fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
