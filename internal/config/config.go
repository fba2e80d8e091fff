// Package config
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	Mode           string
	Interval       time.Duration
	SampleTimeout  time.Duration
	LogLevel       string
	LogFormat      string
	LogOutput      string
	MonitorsFile   string
	JWTSecret      string
	AllowedOrigins []string
	DatabasePath   string
}

const (
	ModeServe    = "serve"
	ModeStream   = "stream"
	ModeSnapshot = "snapshot"
)

func Load() *Config {
	godotenv.Load()

	return &Config{
		Address:        getEnv("HTTP_ADDR", ":3000"),
		Mode:           ParseMode(os.Getenv("AGENT_MODE")),
		Interval:       getDuration("SCRAPE_INTERVAL", time.Second),
		SampleTimeout:  getDuration("SAMPLE_TIMEOUT", time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
		MonitorsFile:   getEnv("MONITORS_FILE", "monitors.yaml"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// ParseMode maps raw to a known mode, defaulting to serve.
func ParseMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ModeStream:
		return ModeStream
	case ModeSnapshot:
		return ModeSnapshot
	default:
		return ModeServe
	}
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
