// Package dbtest поднимает схему в тестовой PostgreSQL.
// Тесты пропускаются, если TEST_POSTGRES_DSN не задан.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

// пакеты тестов идут параллельно, общая БД сериализуется этим ключом
const lockKey = 74210

func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip: TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	lock, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		t.Fatalf("acquire lock conn: %v", err)
	}
	if _, err := lock.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		lock.Release()
		pool.Close()
		t.Fatalf("advisory lock: %v", err)
	}
	t.Cleanup(func() {
		_, _ = lock.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		lock.Release()
		pool.Close()
	})

	if err := db.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		TRUNCATE dealer_price, dealer_contact, dealer_location, dealer,
		         address, phone, product, brand, item, category
		RESTART IDENTITY CASCADE
	`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}
