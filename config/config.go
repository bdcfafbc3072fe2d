package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultMaxImportRows caps a single import request
	DefaultMaxImportRows = 5000
	// DefaultImportRateLimit is the number of import requests a firm may send per minute
	DefaultImportRateLimit = 30
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	LogLevel    string
	// Turso (libsql) - when set, takes precedence over DBPath
	TursoDatabaseURL string
	TursoAuthToken   string
	// Import
	MaxImportRows      int
	CompanyCatalogPath string // Optional YAML file with the company catalog
	DefaultCompany     string // Fallback primary company for firms that have none
	SeedDemoData       bool
	ImportRateLimit    int // Import requests per firm per minute, 0 disables the limit
	// Other
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "db/app.db"),
		Environment:        environment,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TursoDatabaseURL:   getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:     getEnv("TURSO_AUTH_TOKEN", ""),
		MaxImportRows:      getEnvInt("MAX_IMPORT_ROWS", DefaultMaxImportRows),
		CompanyCatalogPath: getEnv("COMPANY_CATALOG_PATH", ""),
		DefaultCompany:     getEnv("DEFAULT_COMPANY", ""),
		SeedDemoData:       getEnvBool("SEED_DEMO_DATA", environment == "development"),
		ImportRateLimit:    getEnvInt("IMPORT_RATE_LIMIT", DefaultImportRateLimit),
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if cfg.MaxImportRows <= 0 {
		log.Printf("[WARNING] MAX_IMPORT_ROWS must be positive, using %d", DefaultMaxImportRows)
		cfg.MaxImportRows = DefaultMaxImportRows
	}

	if cfg.ImportRateLimit < 0 {
		cfg.ImportRateLimit = 0
	}

	return cfg
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[WARNING] %s is not a number (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
