package dealers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Spok95/storekeeper/internal/domain/dealers"
	"github.com/Spok95/storekeeper/internal/infra/db"
	"github.com/Spok95/storekeeper/internal/infra/db/dbtest"
)

func ptr(s string) *string { return &s }

func count(t *testing.T, q db.Querier, table string) int {
	t.Helper()
	var n int
	if err := q.QueryRow(context.Background(), `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRegisterAndList(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)
	ctx := context.Background()

	nd := dealers.NewDealer{FirstName: "Ravi", LastName: "Kumar", CountryCode: "+91", PhoneNumber: "9876543210"}
	d, err := repo.Register(ctx, nd)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("dealers = %d, want 1", len(all))
	}
	got := all[0]
	if got.ID != d.ID || got.FirstName != "Ravi" || got.LastName != "Kumar" ||
		got.CountryCode != "+91" || got.PhoneNumber != "9876543210" || got.MiddleName != nil {
		t.Fatalf("listed %+v", got)
	}
}

func TestSharedPhoneIsStoredOnce(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)
	ctx := context.Background()

	for _, name := range []string{"Ravi", "Anil"} {
		if _, err := repo.Register(ctx, dealers.NewDealer{FirstName: name, LastName: "Kumar", CountryCode: "+91", PhoneNumber: "111"}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if n := count(t, pool, "phone"); n != 1 {
		t.Fatalf("phones = %d, want 1", n)
	}
	if n := count(t, pool, "dealer_contact"); n != 2 {
		t.Fatalf("contacts = %d, want 2", n)
	}
}

func TestRegisterValidation(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)

	_, err := repo.Register(context.Background(), dealers.NewDealer{FirstName: "Ravi", LastName: "Kumar", CountryCode: "+91"})
	if !errors.Is(err, db.ErrConstraint) {
		t.Fatalf("err = %v, want ErrConstraint", err)
	}
	if n := count(t, pool, "dealer"); n != 0 {
		t.Fatalf("dealers = %d, want 0", n)
	}
}

func TestRegisterRollsBackOnFailure(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)

	// NUL в тексте PostgreSQL отвергает уже после вставки dealer
	_, err := repo.Register(context.Background(), dealers.NewDealer{FirstName: "Ravi", LastName: "Kumar", CountryCode: "+91", PhoneNumber: "12\x0034"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, table := range []string{"dealer", "phone", "dealer_contact"} {
		if n := count(t, pool, table); n != 0 {
			t.Fatalf("%s rows = %d, want 0", table, n)
		}
	}
}

func TestResolveMiddleName(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)
	ctx := context.Background()

	withMiddle := dealers.NewDealer{FirstName: "Ravi", MiddleName: ptr("S"), LastName: "Kumar", CountryCode: "+91", PhoneNumber: "111"}
	if _, err := repo.Register(ctx, withMiddle); err != nil {
		t.Fatal(err)
	}

	if _, err := dealers.Resolve(ctx, pool, withMiddle); err != nil {
		t.Fatalf("resolve with middle name: %v", err)
	}

	noMiddle := withMiddle
	noMiddle.MiddleName = nil
	if _, err := dealers.Resolve(ctx, pool, noMiddle); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("absent middle name must not match present one, got %v", err)
	}

	blank := withMiddle
	blank.MiddleName = ptr("  ")
	if _, err := dealers.Resolve(ctx, pool, blank); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("blank middle name is absent, got %v", err)
	}
}

func TestLocations(t *testing.T) {
	pool := dbtest.Open(t)
	repo := dealers.NewRepo(pool)
	ctx := context.Background()

	key := dealers.DealerKey{FirstName: "Ravi", LastName: "Kumar", CountryCode: "+91", PhoneNumber: "111"}
	if _, err := repo.Register(ctx, key); err != nil {
		t.Fatal(err)
	}

	addr := dealers.Address{StreetName: ptr("MG Road"), City: "Pune", District: "Pune", PinCode: "411001", State: "MH", Country: "India"}
	l, err := repo.AddLocation(ctx, key, addr, ptr("warehouse"))
	if err != nil {
		t.Fatalf("add location: %v", err)
	}
	if l.Address.ID == 0 {
		t.Fatal("address id not set")
	}

	ls, err := repo.ListLocations(ctx, key)
	if err != nil {
		t.Fatalf("list locations: %v", err)
	}
	if len(ls) != 1 || ls[0].Address.City != "Pune" || ls[0].Description == nil || *ls[0].Description != "warehouse" {
		t.Fatalf("locations = %+v", ls)
	}

	bad := addr
	bad.Country = ""
	if _, err := repo.AddLocation(ctx, key, bad, nil); !errors.Is(err, db.ErrConstraint) {
		t.Fatalf("missing country = %v, want ErrConstraint", err)
	}

	stranger := key
	stranger.PhoneNumber = "222"
	if _, err := repo.AddLocation(ctx, stranger, addr, nil); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("unknown dealer = %v, want ErrNotFound", err)
	}
	if n := count(t, pool, "address"); n != 1 {
		t.Fatalf("addresses = %d, want 1", n)
	}
}
