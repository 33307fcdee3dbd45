package database

import (
	"fmt"
	"strings"
	"time"

	"campaign-platform/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config interface {
	Driver() string
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	SQLitePath() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	EnableLog() bool
	LogLevel() string
}

func getDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host(),
		cfg.User(),
		cfg.Password(),
		cfg.Name(),
		cfg.Port(),
		cfg.SSLMode())
}

func getNamingStrategy() schema.NamingStrategy {
	return schema.NamingStrategy{
		SingularTable: false,
		NoLowerCase:   false,
		NameReplacer:  strings.NewReplacer("URL", "Url"),
	}
}

func newLogger(l log.Logger, cfg Config) logger.Interface {
	logLevel := logger.Silent
	if cfg.EnableLog() {
		switch cfg.LogLevel() {
		case "info":
			logLevel = logger.Info
		case "warn":
			logLevel = logger.Warn
		case "error":
			logLevel = logger.Error
		case "silent":
			logLevel = logger.Silent
		default:
			logLevel = logger.Warn
		}
	}

	return logger.New(l, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}

func dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver() {
	case DriverPostgres, "":
		return postgres.New(postgres.Config{
			DSN:                  getDSN(cfg),
			PreferSimpleProtocol: true, // no implicit prepared statements
		}), nil
	case DriverSQLite:
		// Foreign keys are off by default in sqlite.
		return sqlite.Open(cfg.SQLitePath() + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver())
	}
}

func Connect(cfg Config, l log.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: getNamingStrategy(),
		Logger:         newLogger(l, cfg),
	})
	if err != nil {
		return nil, err
	}

	sDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := cfg.MaxOpenConns()
	if cfg.Driver() == DriverSQLite {
		// sqlite allows a single writer.
		maxOpen = 1
	}
	sDB.SetMaxIdleConns(min(cfg.MaxIdleConns(), maxOpen))
	sDB.SetMaxOpenConns(maxOpen)
	sDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	l.Info("Database connected", log.String("driver", cfg.Driver()))
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sDB, err := db.DB()
	if err != nil {
		return err
	}
	return sDB.Close()
}
