package dealers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const dealerSelect = `
	SELECT d.id, d.first_name, d.middle_name, d.last_name,
	       COALESCE(p.country_code, ''), COALESCE(p.phone_number, ''), d.created_at
	FROM dealer d
	LEFT JOIN dealer_contact dc ON dc.dealer_id = d.id
	LEFT JOIN phone p ON p.id = dc.phone_id
`

// optional: пустое отчество хранится как NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (k DealerKey) trimmed() DealerKey {
	return DealerKey{
		FirstName:   strings.TrimSpace(k.FirstName),
		MiddleName:  optional(k.MiddleName),
		LastName:    strings.TrimSpace(k.LastName),
		CountryCode: strings.TrimSpace(k.CountryCode),
		PhoneNumber: strings.TrimSpace(k.PhoneNumber),
	}
}

// Normalize обрезает пробелы и проверяет обязательные поля.
func (k DealerKey) Normalize() (DealerKey, error) {
	k = k.trimmed()
	switch {
	case k.FirstName == "":
		return k, fmt.Errorf("%w: first name is empty", db.ErrConstraint)
	case k.LastName == "":
		return k, fmt.Errorf("%w: last name is empty", db.ErrConstraint)
	case k.CountryCode == "":
		return k, fmt.Errorf("%w: country code is empty", db.ErrConstraint)
	case k.PhoneNumber == "":
		return k, fmt.Errorf("%w: phone number is empty", db.ErrConstraint)
	}
	return k, nil
}

func scanDealer(row pgx.Row) (*Dealer, error) {
	var d Dealer
	if err := row.Scan(&d.ID, &d.FirstName, &d.MiddleName, &d.LastName, &d.CountryCode, &d.PhoneNumber, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Register атомарно создаёт поставщика, телефон (если такой пары ещё нет)
// и связь между ними. При любой ошибке ничего не остаётся.
func (r *Repo) Register(ctx context.Context, nd NewDealer) (*Dealer, error) {
	nd, err := nd.Normalize()
	if err != nil {
		return nil, err
	}

	d := Dealer{
		FirstName:   nd.FirstName,
		MiddleName:  nd.MiddleName,
		LastName:    nd.LastName,
		CountryCode: nd.CountryCode,
		PhoneNumber: nd.PhoneNumber,
	}
	err = db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO dealer (first_name, middle_name, last_name)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, nd.FirstName, nd.MiddleName, nd.LastName).Scan(&d.ID, &d.CreatedAt); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO phone (country_code, phone_number) VALUES ($1, $2)
			ON CONFLICT (country_code, phone_number) DO NOTHING
		`, nd.CountryCode, nd.PhoneNumber); err != nil {
			return err
		}
		var phoneID int64
		if err := tx.QueryRow(ctx, `
			SELECT id FROM phone WHERE country_code = $1 AND phone_number = $2
		`, nd.CountryCode, nd.PhoneNumber).Scan(&phoneID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO dealer_contact (dealer_id, phone_id) VALUES ($1, $2)
		`, d.ID, phoneID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) List(ctx context.Context) ([]Dealer, error) {
	rows, err := r.pool.Query(ctx, dealerSelect+` ORDER BY d.id`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Dealer
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, *d)
	}
	return out, db.Classify(rows.Err())
}

// Resolve находит поставщика по ФИО и телефону. Отсутствующее отчество
// совпадает только с отсутствующим. При нескольких совпадениях берётся самый старый.
func Resolve(ctx context.Context, q db.Querier, k DealerKey) (*Dealer, error) {
	k = k.trimmed()
	row := q.QueryRow(ctx, `
		SELECT d.id, d.first_name, d.middle_name, d.last_name, p.country_code, p.phone_number, d.created_at
		FROM dealer d
		JOIN dealer_contact dc ON dc.dealer_id = d.id
		JOIN phone p ON p.id = dc.phone_id
		WHERE d.first_name = $1
		  AND d.middle_name IS NOT DISTINCT FROM $2
		  AND d.last_name = $3
		  AND p.country_code = $4
		  AND p.phone_number = $5
		ORDER BY d.id
		LIMIT 1
	`, k.FirstName, k.MiddleName, k.LastName, k.CountryCode, k.PhoneNumber)

	d, err := scanDealer(row)
	if err != nil {
		return nil, fmt.Errorf("resolve dealer %s %s: %w", k.FirstName, k.LastName, db.Classify(err))
	}
	return d, nil
}
