package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the environment-driven settings for the server.
type Config struct {
	Port        string
	AWSRegion   string
	S3Bucket    string
	SwipeWindow time.Duration
	SwipeBurst  int
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AWSRegion:   os.Getenv("AWS_REGION"),
		S3Bucket:    os.Getenv("S3_BUCKET_NAME"),
		SwipeWindow: getDuration("SWIPE_RATE_WINDOW", 500*time.Millisecond),
		SwipeBurst:  getInt("SWIPE_RATE_BURST", 30),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
