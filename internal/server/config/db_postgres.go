package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenDB открывает подключение к PostgreSQL (драйвер pgx), настраивает пул,
// проверяет доступность базы и, если включено, применяет миграции.
//
// Возвращённый *sql.DB закрывает вызывающий код.
func OpenDB(ctx context.Context, db DBConfig, mig MigrationsConfig, log *logger.HTTPLogger) (*sql.DB, error) {
	customLog := log.Sugar()

	conn, err := sql.Open("pgx", db.DSN)
	if err != nil {
		customLog.Errorf("error to connect db: %v", err)
		return nil, err
	}

	if db.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(db.MaxOpenConns)
	}
	if db.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(db.MaxIdleConns)
	}
	if db.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(db.ConnMaxLifetime)
	}
	if db.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(db.ConnMaxIdleTime)
	}

	if err = conn.PingContext(ctx); err != nil {
		customLog.Errorf("error check db connection: %v", err)
		conn.Close()
		return nil, err
	}

	if mig.Enabled {
		if err := RunMigrations(conn, mig.Path); err != nil {
			customLog.Errorf("error applying migrations: %v", err)
			conn.Close()
			return nil, err
		}
		customLog.Info("migrations applied successfully")
	}

	return conn, nil
}

// RunMigrations применяет миграции из каталога path.
// Если миграции уже применены, migrate.ErrNoChange ошибкой не считается.
func RunMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
