package db

import (
	"fmt"
	"net/url"

	"solve_litigation_go/logger"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the backing database. A non-empty TursoURL takes precedence over Path.
type Options struct {
	Path        string
	TursoURL    string
	TursoToken  string
	Environment string
}

// Initialize sets up the database connection. Local files use WAL mode for concurrency.
func Initialize(opts Options) error {
	logLevel := gormlogger.Info
	if opts.Environment == "production" {
		logLevel = gormlogger.Warn
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var err error
	if opts.TursoURL != "" {
		DB, err = gorm.Open(sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        tursoDSN(opts.TursoURL, opts.TursoToken),
		}), gormCfg)
	} else {
		DB, err = gorm.Open(sqlite.Open(opts.Path+"?_journal_mode=WAL&_busy_timeout=5000"), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.TursoURL != "" {
		logger.Log.Info("Database connection established", "backend", "libsql")
	} else {
		logger.Log.Info("Database connection established", "backend", "sqlite", "path", opts.Path)
	}
	return nil
}

func tursoDSN(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Database migrations completed", "models", len(models))
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
