// Подключение к PostgreSQL и миграции.
//
// OpenDB выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - настройку пула соединений;
//   - проверку доступности базы (Ping);
//   - запуск встроенных миграций (golang-migrate) при старте сервера.
//
// Глобального состояния нет: *sql.DB возвращается вызывающему и передаётся дальше явно.
package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-auth-service/migrations"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenDB открывает пул, проверяет соединение и, если включено, применяет миграции.
//
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func OpenDB(ctx context.Context, cfg *Config, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	ConfigurePool(db, cfg.DB)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.QueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if cfg.Migrations.IsEnabled() {
		if err := Migrate(cfg.DB.DSN, cfg.Migrations); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("migrations applied successfully")
	}

	return db, nil
}

// ConfigurePool применяет лимиты пула из конфига.
func ConfigurePool(db *sql.DB, cfg DBConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// Migrate применяет встроенные миграции к базе.
//
// Для миграций открывается отдельное соединение: драйвер migrate держит
// *sql.Conn до Close и закрывает свой *sql.DB вместе с собой.
func Migrate(dsn string, cfg MigrationsConfig) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migrations db: %w", err)
	}

	// создаём драйвер для миграций
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, migrations.Dir)
	if err != nil {
		driver.Close()
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("create migrations: %w", err)
	}
	defer m.Close()
	if cfg.LockTimeout > 0 {
		m.LockTimeout = cfg.LockTimeout
	}

	// запускаем миграции
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
