package catalog

import (
	"errors"
	"testing"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

func TestProductKeyNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      ProductKey
		want    ProductKey
		wantErr bool
	}{
		{
			name: "trims",
			in:   ProductKey{Name: " Milk ", Brand: "Amul\t", Item: " Dairy", Pack: "1L "},
			want: ProductKey{Name: "Milk", Brand: "Amul", Item: "Dairy", Pack: "1L"},
		},
		{name: "empty name", in: ProductKey{Brand: "A", Item: "I", Pack: "P"}, wantErr: true},
		{name: "blank brand", in: ProductKey{Name: "N", Brand: "  ", Item: "I", Pack: "P"}, wantErr: true},
		{name: "empty item", in: ProductKey{Name: "N", Brand: "B", Pack: "P"}, wantErr: true},
		{name: "empty pack", in: ProductKey{Name: "N", Brand: "B", Item: "I"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr {
				if !errors.Is(err, db.ErrConstraint) {
					t.Fatalf("err = %v, want ErrConstraint", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProductKey(t *testing.T) {
	p := Product{ID: 3, Name: "Milk", Brand: "Amul", Item: "Dairy", Pack: "1L"}
	want := ProductKey{Name: "Milk", Brand: "Amul", Item: "Dairy", Pack: "1L"}
	if got := p.Key(); got != want {
		t.Fatalf("Key() = %+v, want %+v", got, want)
	}
}
