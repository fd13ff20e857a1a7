package dealers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

func (a Address) normalize() (Address, error) {
	a.HouseNum = optional(a.HouseNum)
	a.StreetName = optional(a.StreetName)
	a.LocalityName = optional(a.LocalityName)
	a.City = strings.TrimSpace(a.City)
	a.District = strings.TrimSpace(a.District)
	a.PinCode = strings.TrimSpace(a.PinCode)
	a.State = strings.TrimSpace(a.State)
	a.Country = strings.TrimSpace(a.Country)

	required := []struct{ field, v string }{
		{"city", a.City},
		{"district", a.District},
		{"pin code", a.PinCode},
		{"state", a.State},
		{"country", a.Country},
	}
	for _, f := range required {
		if f.v == "" {
			return a, fmt.Errorf("%w: %s is empty", db.ErrConstraint, f.field)
		}
	}
	return a, nil
}

// AddLocation добавляет поставщику адрес одной транзакцией.
func (r *Repo) AddLocation(ctx context.Context, dealer DealerKey, addr Address, description *string) (*Location, error) {
	addr, err := addr.normalize()
	if err != nil {
		return nil, err
	}
	description = optional(description)

	err = db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		d, err := Resolve(ctx, tx, dealer)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO address (house_num, street_name, locality_name, city_name, district_name, pin_code, state, country)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, addr.HouseNum, addr.StreetName, addr.LocalityName,
			addr.City, addr.District, addr.PinCode, addr.State, addr.Country,
		).Scan(&addr.ID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO dealer_location (dealer_id, address_id, description) VALUES ($1, $2, $3)
		`, d.ID, addr.ID, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Location{Address: addr, Description: description}, nil
}

func (r *Repo) ListLocations(ctx context.Context, dealer DealerKey) ([]Location, error) {
	d, err := Resolve(ctx, r.pool, dealer)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.house_num, a.street_name, a.locality_name,
		       a.city_name, a.district_name, a.pin_code, a.state, a.country, dl.description
		FROM dealer_location dl
		JOIN address a ON a.id = dl.address_id
		WHERE dl.dealer_id = $1
		ORDER BY a.id
	`, d.ID)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		a := &l.Address
		if err := rows.Scan(&a.ID, &a.HouseNum, &a.StreetName, &a.LocalityName,
			&a.City, &a.District, &a.PinCode, &a.State, &a.Country, &l.Description); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, l)
	}
	return out, db.Classify(rows.Err())
}
