package db

import (
	"fmt"
	"log"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects the database backend
type Options struct {
	Path        string // Local SQLite file
	TursoURL    string // libsql://... (takes precedence over Path)
	TursoToken  string
	Environment string
}

// Open sets up the database connection and returns the handle.
// Local files use WAL mode for concurrency; Turso goes through the libsql driver.
func Open(opts Options) (*gorm.DB, error) {
	// Determine log level based on environment
	logLevel := logger.Info
	if opts.Environment == "production" {
		logLevel = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	if opts.TursoURL != "" {
		dsn, err := tursoDSN(opts.TursoURL, opts.TursoToken)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        dsn,
		})
	} else {
		// Enable WAL mode for better concurrency support
		dialector = sqlite.Open(opts.Path + "?_journal_mode=WAL&_busy_timeout=5000")
	}

	database, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.TursoURL != "" {
		log.Println("Database connection established (Turso/libsql)")
	} else {
		log.Println("Database connection established (WAL mode enabled)")
	}
	return database, nil
}

func tursoDSN(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid TURSO_DATABASE_URL: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("authToken", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(database *gorm.DB, models ...interface{}) error {
	if database == nil {
		return fmt.Errorf("database not initialized")
	}

	err := database.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close(database *gorm.DB) error {
	if database == nil {
		return nil
	}

	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
