package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort       string
	DatabaseURL      string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	JWTSecret        string
	ResendAPIKey     string
	PaystackSecret   string
	GoogleClientID   string
	MailFrom         string
	AdminEmail       string
	FrontendURL      string
	CORSOrigins      []string
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		PaystackSecret: os.Getenv("PAYSTACK_SECRET_KEY"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		MailFrom:       getEnv("MAIL_FROM", "onboarding@resend.dev"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "macleaann723@gmail.com"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		CORSOrigins:    getEnvList("CORS_ORIGINS", "http://localhost:5173,http://localhost:8000,http://127.0.0.1:5173,http://127.0.0.1:8000"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

// Validate reports the required variables that are missing. The server
// refuses to boot without them.
func (c *Config) Validate() error {
	required := map[string]string{
		"DATABASE_URL":        c.DatabaseURL,
		"JWT_SECRET":          c.JWTSecret,
		"RESEND_API_KEY":      c.ResendAPIKey,
		"PAYSTACK_SECRET_KEY": c.PaystackSecret,
	}
	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key, def string) []string {
	raw := getEnv(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
