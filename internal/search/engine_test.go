package search

import (
	"context"
	"errors"
	"testing"

	"github.com/Spok95/storekeeper/internal/domain/catalog"
)

type fakeLister struct {
	products []catalog.Product
	err      error
	calls    int
}

func (f *fakeLister) ListProducts(context.Context) ([]catalog.Product, error) {
	f.calls++
	return f.products, f.err
}

func product(id int64, name, brand, item, pack string) catalog.Product {
	return catalog.Product{ID: id, Name: name, Brand: brand, Item: item, Pack: pack}
}

func ids(ps []catalog.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchEmptyQuerySkipsScan(t *testing.T) {
	lister := &fakeLister{products: []catalog.Product{product(1, "Milk", "Zeta", "Dairy", "1L")}}
	got, err := NewEngine(lister).Search(context.Background(), "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results, want 0", len(got))
	}
	if lister.calls != 0 {
		t.Fatalf("catalog scanned %d times for empty query", lister.calls)
	}
}

func TestSearchExactRanksFirst(t *testing.T) {
	lister := &fakeLister{products: []catalog.Product{
		product(1, "Milkshake", "Zeta", "Dairy", "1L"),
		product(2, "Milk", "Zeta", "Dairy", "1L"),
		product(3, "Bread", "Zeta", "Bakery", "500g"),
	}}
	got, err := NewEngine(lister).Search(context.Background(), "MILK")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []int64{2, 1}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestSearchLimitAndStableOrder(t *testing.T) {
	var ps []catalog.Product
	for i := int64(1); i <= 8; i++ {
		ps = append(ps, product(i, "Milk", "Zeta", "Dairy", "1L"))
	}
	got, err := NewEngine(&fakeLister{products: ps}).Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []int64{1, 2, 3, 4, 5}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestSearchSubstringTieKeepsCatalogOrder(t *testing.T) {
	lister := &fakeLister{products: []catalog.Product{
		product(1, "CreamSoda", "Fizz", "Drink", "1L"),
		product(2, "DietSoda", "Xyz", "Drink", "500ml"),
	}}
	got, err := NewEngine(lister).Search(context.Background(), "soda")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []int64{1, 2}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestSearchBrandExactMatchBeatsNamePrefix(t *testing.T) {
	// бренд "Soda" совпадает с запросом целиком, а "SodaMax" только по префиксу
	lister := &fakeLister{products: []catalog.Product{
		product(1, "SodaMax", "X", "Drink", "500ml"),
		product(2, "CreamSoda", "Soda", "Drink", "1L"),
	}}
	got, err := NewEngine(lister).Search(context.Background(), "soda")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := []int64{2, 1}; !equalIDs(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestSearchDropsZeroScores(t *testing.T) {
	lister := &fakeLister{products: []catalog.Product{
		product(1, "Bread", "Zeta", "Bakery", "500g"),
	}}
	got, err := NewEngine(lister).Search(context.Background(), "milk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want no results", ids(got))
	}
}

func TestSearchListerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewEngine(&fakeLister{err: boom}).Search(context.Background(), "milk")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRecentResultsIsEmpty(t *testing.T) {
	lister := &fakeLister{products: []catalog.Product{product(1, "Milk", "Zeta", "Dairy", "1L")}}
	e := NewEngine(lister)
	if _, err := e.Search(context.Background(), "milk"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	got, err := e.RecentResults(context.Background())
	if err != nil {
		t.Fatalf("RecentResults: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("RecentResults = %v, want empty slice", got)
	}
}
