package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/storekeeper/internal/domain/brands"
	"github.com/Spok95/storekeeper/internal/infra/db"
)

type Repo struct {
	pool   *pgxpool.Pool
	brands *brands.Repo
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, brands: brands.NewRepo(pool)}
}

/* Categories */

func (r *Repo) CreateCategory(ctx context.Context, name string, parentID *int64) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is empty", db.ErrConstraint)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO category (name, parent_id) VALUES ($1, $2)
		RETURNING id, name, parent_id, created_at
	`, name, parentID)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &c, nil
}

func (r *Repo) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, parent_id, created_at
		FROM category WHERE id = $1
	`, id)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, parent_id, created_at
		FROM category
		ORDER BY id
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, c)
	}
	return out, db.Classify(rows.Err())
}

// DeleteCategory удаляет категорию. Дочерние категории и товары
// не удаляются, а отвязываются (ON DELETE SET NULL).
func (r *Repo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %d", db.ErrNotFound, id)
	}
	return nil
}

/* Items */

// getOrCreateItem: идемпотентная вставка типа товара по имени.
func getOrCreateItem(ctx context.Context, q db.Querier, name string) (*Item, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO item (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, category_id, created_at
	`, name)
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.CategoryID, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		row = q.QueryRow(ctx, `
			SELECT id, name, category_id, created_at
			FROM item WHERE name = $1
		`, name)
		err = row.Scan(&it.ID, &it.Name, &it.CategoryID, &it.CreatedAt)
	}
	if err != nil {
		return nil, db.Classify(err)
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category_id, created_at
		FROM item
		ORDER BY name
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.CategoryID, &it.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, it)
	}
	return out, db.Classify(rows.Err())
}

// AssignItemCategory привязывает тип товара к категории (nil: отвязать).
func (r *Repo) AssignItemCategory(ctx context.Context, itemName string, categoryID *int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE item SET category_id = $2 WHERE name = $1
		RETURNING id, name, category_id, created_at
	`, strings.TrimSpace(itemName), categoryID)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.CategoryID, &it.CreatedAt); err != nil {
		return nil, db.Classify(err)
	}
	return &it, nil
}
