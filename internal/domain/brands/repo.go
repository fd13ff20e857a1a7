package brands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

// WithTx возвращает репозиторий, работающий внутри транзакции tx.
func (r *Repo) WithTx(tx pgx.Tx) *Repo { return &Repo{q: tx} }

func (r *Repo) GetByName(ctx context.Context, name string) (*Brand, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM brand
		WHERE name = $1
	`, strings.TrimSpace(name))
	var b Brand
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &b, nil
}

// GetOrCreate возвращает бренд по имени, создавая его при отсутствии.
// Имя бренда уникально глобально, повторный вызов вернёт ту же строку.
func (r *Repo) GetOrCreate(ctx context.Context, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: brand name is empty", db.ErrConstraint)
	}

	row := r.q.QueryRow(ctx, `
		INSERT INTO brand (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`, name)
	var b Brand
	err := row.Scan(&b.ID, &b.Name, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// уже есть
		return r.GetByName(ctx, name)
	}
	if err != nil {
		return nil, db.Classify(err)
	}
	return &b, nil
}

func (r *Repo) List(ctx context.Context) ([]Brand, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, created_at
		FROM brand
		ORDER BY name
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, b)
	}
	return out, db.Classify(rows.Err())
}
