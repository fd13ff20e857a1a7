package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound: поиск по естественному ключу не дал ни одной строки.
	ErrNotFound = errors.New("store: not found")
	// ErrConstraint: нарушена проверка непустоты, неотрицательности или уникальности.
	ErrConstraint = errors.New("store: constraint violation")
	// ErrUnavailable: хранилище нельзя открыть или прочитать.
	ErrUnavailable = errors.New("store: unavailable")
)

// Classify приводит ошибку драйвера к одному из ErrNotFound / ErrConstraint / ErrUnavailable.
// Исходная ошибка остаётся в цепочке, прочие ошибки возвращаются как есть.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"): // integrity_constraint_violation
			return fmt.Errorf("%w: %s: %w", ErrConstraint, pgErr.ConstraintName, err)
		case strings.HasPrefix(pgErr.Code, "08"), // connection_exception
			strings.HasPrefix(pgErr.Code, "53"), // insufficient_resources
			strings.HasPrefix(pgErr.Code, "57P"): // admin/crash shutdown
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
