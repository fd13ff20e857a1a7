package prices

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/storekeeper/internal/domain/catalog"
	"github.com/Spok95/storekeeper/internal/domain/dealers"
	"github.com/Spok95/storekeeper/internal/infra/db"
)

type Ledger struct{ pool *pgxpool.Pool }

func NewLedger(pool *pgxpool.Pool) *Ledger { return &Ledger{pool: pool} }

// Record дописывает в журнал новую цену поставщика на товар.
// Время записи проставляет сервер, существующие строки не трогаются.
func (l *Ledger) Record(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey, price int64) (*Entry, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price %d is negative", db.ErrConstraint, price)
	}

	var e Entry
	err := db.InTx(ctx, l.pool, func(tx pgx.Tx) error {
		p, err := catalog.Resolve(ctx, tx, product)
		if err != nil {
			return err
		}
		d, err := dealers.Resolve(ctx, tx, dealer)
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO dealer_price (product_id, dealer_id, price)
			VALUES ($1, $2, $3)
			RETURNING id, product_id, dealer_id, price, recorded_at
		`, p.ID, d.ID, price).Scan(&e.ID, &e.ProductID, &e.DealerID, &e.Price, &e.RecordedAt)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestFor возвращает для каждого поставщика, когда-либо называвшего цену
// на товар, строку с максимальным временем по паре (товар, поставщик).
// Строки с одинаковым максимальным временем возвращаются все.
func (l *Ledger) LatestFor(ctx context.Context, product catalog.ProductKey) ([]Quote, error) {
	p, err := catalog.Resolve(ctx, l.pool, product)
	if err != nil {
		return nil, err
	}

	rows, err := l.pool.Query(ctx, `
		SELECT d.id, d.first_name, d.middle_name, d.last_name,
		       COALESCE(ph.country_code, ''), COALESCE(ph.phone_number, ''), d.created_at,
		       dp.price, dp.recorded_at
		FROM dealer_price dp
		JOIN dealer d ON d.id = dp.dealer_id
		LEFT JOIN dealer_contact dc ON dc.dealer_id = d.id
		LEFT JOIN phone ph ON ph.id = dc.phone_id
		WHERE dp.product_id = $1
		  AND dp.recorded_at = (
			SELECT MAX(dp2.recorded_at)
			FROM dealer_price dp2
			WHERE dp2.product_id = dp.product_id
			  AND dp2.dealer_id = dp.dealer_id
		  )
		ORDER BY d.id, dp.id
	`, p.ID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		var q Quote
		d := &q.Dealer
		if err := rows.Scan(&d.ID, &d.FirstName, &d.MiddleName, &d.LastName,
			&d.CountryCode, &d.PhoneNumber, &d.CreatedAt,
			&q.Price, &q.RecordedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, q)
	}
	return out, db.Classify(rows.Err())
}

// History: весь журнал цен пары (товар, поставщик), новые сверху.
func (l *Ledger) History(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey) ([]Entry, error) {
	p, err := catalog.Resolve(ctx, l.pool, product)
	if err != nil {
		return nil, err
	}
	d, err := dealers.Resolve(ctx, l.pool, dealer)
	if err != nil {
		return nil, err
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, product_id, dealer_id, price, recorded_at
		FROM dealer_price
		WHERE product_id = $1 AND dealer_id = $2
		ORDER BY recorded_at DESC, id DESC
	`, p.ID, d.ID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.DealerID, &e.Price, &e.RecordedAt); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, e)
	}
	return out, db.Classify(rows.Err())
}
