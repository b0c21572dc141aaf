package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the SkillSwap services.
type Config struct {
	Environment    string
	HTTPPort       int
	DatabaseURL    string
	DataStore      string
	LogLevel       string
	AllowedOrigins []string
	FrontendURL    string
	StaticDir      string

	SessionTTL time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RedisAddr     string
	RedisPassword string

	SkillsFile string
	WebmailURL string
}

// Load reads configuration from environment variables with sensible defaults
// for local development. A .env file in the working directory is applied
// first, without overriding variables already set in the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/skillswap_database_url")
	if err != nil {
		return Config{}, err
	}

	googleClientSecret, err := getEnvOrFile("GOOGLE_CLIENT_SECRET", "/run/secrets/skillswap_google_client_secret")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:    getEnv("APP_ENV", "development"),
		DatabaseURL:    databaseURL,
		DataStore:      strings.ToLower(getEnv("DATA_STORE", "memory")),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins: parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		FrontendURL:    strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		StaticDir:      getEnv("WEB_DIST_PATH", "web/dist"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: googleClientSecret,
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SkillsFile: getEnv("SKILLS_FILE", ""),
		WebmailURL: getEnv("WEBMAIL_URL", "https://mail.google.com"),
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "8080"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	ttlValue := getEnv("SESSION_TTL_HOURS", "12")
	ttlHours, err := strconv.Atoi(ttlValue)
	if err != nil || ttlHours <= 0 {
		return Config{}, fmt.Errorf("invalid session TTL %q", ttlValue)
	}
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	if cfg.DataStore == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
	}

	if !strings.EqualFold(cfg.Environment, "development") {
		if len(cfg.AllowedOrigins) == 0 {
			return Config{}, fmt.Errorf("ALLOWED_ORIGINS must define at least one origin outside development")
		}
		for _, origin := range cfg.AllowedOrigins {
			if origin == "*" {
				return Config{}, fmt.Errorf("ALLOWED_ORIGINS cannot contain wildcard outside development")
			}
		}
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repository should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// GoogleEnabled reports whether federated sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// RedisEnabled reports whether Redis-backed stores should be used.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
