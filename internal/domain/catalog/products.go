package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

const productSelect = `
	SELECT p.id, p.name, b.name, i.name, p.pack_name, p.created_at
	FROM product p
	JOIN brand b ON b.id = p.brand_id
	JOIN item i ON i.id = p.item_id
`

func (k ProductKey) trimmed() ProductKey {
	return ProductKey{
		Name:  strings.TrimSpace(k.Name),
		Brand: strings.TrimSpace(k.Brand),
		Item:  strings.TrimSpace(k.Item),
		Pack:  strings.TrimSpace(k.Pack),
	}
}

// Normalize обрезает пробелы и проверяет, что все четыре поля непустые.
func (k ProductKey) Normalize() (ProductKey, error) {
	k = k.trimmed()
	switch {
	case k.Name == "":
		return k, fmt.Errorf("%w: product name is empty", db.ErrConstraint)
	case k.Brand == "":
		return k, fmt.Errorf("%w: brand name is empty", db.ErrConstraint)
	case k.Item == "":
		return k, fmt.Errorf("%w: item name is empty", db.ErrConstraint)
	case k.Pack == "":
		return k, fmt.Errorf("%w: pack name is empty", db.ErrConstraint)
	}
	return k, nil
}

// RegisterProduct одной транзакцией находит или создаёт бренд и тип товара
// и добавляет новую строку товара. Дубликаты товаров не отсекаются.
func (r *Repo) RegisterProduct(ctx context.Context, np NewProduct) (*Product, error) {
	np, err := np.Normalize()
	if err != nil {
		return nil, err
	}

	var p Product
	err = db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		brand, err := r.brands.WithTx(tx).GetOrCreate(ctx, np.Brand)
		if err != nil {
			return err
		}
		item, err := getOrCreateItem(ctx, tx, np.Item)
		if err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO product (name, pack_name, brand_id, item_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, pack_name, created_at
		`, np.Name, np.Pack, brand.ID, item.ID)
		if err := row.Scan(&p.ID, &p.Name, &p.Pack, &p.CreatedAt); err != nil {
			return err
		}
		p.Brand = brand.Name
		p.Item = item.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts возвращает весь каталог в порядке добавления.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Item, &p.Pack, &p.CreatedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, p)
	}
	return out, db.Classify(rows.Err())
}

// Resolve находит товар по естественному ключу через пул репозитория.
func (r *Repo) Resolve(ctx context.Context, k ProductKey) (*Product, error) {
	return Resolve(ctx, r.pool, k)
}

// Resolve находит товар по естественному ключу. Если ключу соответствует
// несколько строк, берётся самая старая.
func Resolve(ctx context.Context, q db.Querier, k ProductKey) (*Product, error) {
	k = k.trimmed()
	row := q.QueryRow(ctx, productSelect+`
		WHERE p.name = $1 AND b.name = $2 AND i.name = $3 AND p.pack_name = $4
		ORDER BY p.id
		LIMIT 1
	`, k.Name, k.Brand, k.Item, k.Pack)

	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Item, &p.Pack, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("resolve product %q/%q/%q/%q: %w", k.Name, k.Brand, k.Item, k.Pack, db.Classify(err))
	}
	return &p, nil
}
