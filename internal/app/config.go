package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go-hrportal/internal/shared/connection"
)

const connectRetries = 5

type Config struct {
	DB connection.DBConfig

	RedisAddr   string
	KafkaBroker string

	// HMAC key for access tokens
	JWTSecret string

	CloudinaryURL    string
	CloudinaryFolder string

	CORSAllowedOrigins []string

	// requests per second and burst for the per-IP limiter
	IPRateLimit float64
	IPRateBurst int
}

// LoadConfig reads the process environment. A .env file, when present, is
// loaded by the cmd entrypoints before this runs.
func LoadConfig() (Config, error) {
	cfg := Config{
		DB: connection.DBConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     envOr("DB_PORT", "5432"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder:   envOr("CLOUDINARY_FOLDER", "investment-declarations"),
		CORSAllowedOrigins: splitList(envOr("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		IPRateLimit:        20,
		IPRateBurst:        40,
	}

	if v := os.Getenv("RATE_LIMIT_IP_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_IP_RPS %q", v)
		}
		cfg.IPRateLimit = rps
	}
	if v := os.Getenv("RATE_LIMIT_IP_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_IP_BURST %q", v)
		}
		cfg.IPRateBurst = burst
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return Config{}, fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
