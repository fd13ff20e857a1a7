package db

import (
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate накатывает встроенные миграции схемы каталога.
func Migrate(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return Classify(err)
	}
	return nil
}
