package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"coffeerange/internal/model"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// PostgresConnection backs the closing price ledger and the grade catalog.
type PostgresConnection struct {
	DB *gorm.DB
}

func NewPostgresConnection(logger *slog.Logger, connectionString string, logLevel slog.Level) (*PostgresConnection, error) {
	gormLogger := slogGorm.New(
		slogGorm.WithHandler(logger.With("component", "gorm").Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.SetLogLevel(slogGorm.ErrorLogType, slog.LevelError),
		slogGorm.SetLogLevel(slogGorm.SlowQueryLogType, slog.LevelWarn),
		slogGorm.SetLogLevel(slogGorm.DefaultLogType, logLevel),
	)

	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get ledger pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return &PostgresConnection{DB: db}, nil
}

func MustNewPostgresConnection(logger *slog.Logger, connectionString string, logLevel slog.Level) *PostgresConnection {
	conn, err := NewPostgresConnection(logger, connectionString, logLevel)
	if err != nil {
		panic(err)
	}

	return conn
}

// Ping reports whether the ledger database answers.
func (s *PostgresConnection) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("get ledger pool: %w", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping ledger database: %w", err)
	}
	return nil
}

func (s *PostgresConnection) MustClose() {
	sqlDB, err := s.DB.DB()
	if err != nil {
		panic(fmt.Errorf("get ledger pool: %w", err))
	}

	if err = sqlDB.Close(); err != nil {
		panic(fmt.Errorf("close ledger database: %w", err))
	}
}

// MustMigration creates the ledger and catalog tables with their price checks.
// Price rows are never dropped.
func (s *PostgresConnection) MustMigration() {
	err := s.DB.AutoMigrate(
		&model.ClosingPrice{},
		&model.GradeBand{},
	)
	if err != nil {
		panic(fmt.Errorf("migrate ledger models: %w", err))
	}

	migrator := s.DB.Migrator()
	for _, c := range []struct {
		model any
		name  string
	}{
		{&model.ClosingPrice{}, "chk_closing_price_positive"},
		{&model.GradeBand{}, "chk_band_bounds"},
	} {
		if migrator.HasConstraint(c.model, c.name) {
			continue
		}
		if err = migrator.CreateConstraint(c.model, c.name); err != nil {
			panic(fmt.Errorf("create constraint %s: %w", c.name, err))
		}
	}
}
