package search

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   int
	}{
		{"all tiers stack on exact match", "soda", []string{"soda", "x", "drink", "1l"}, 1800},
		{"prefix and substring", "cre", []string{"creamsoda", "soda", "drink", "1l"}, 700},
		{"prefix within one edit", "abc", []string{"abcd", "zzzzzzz"}, 770},
		{"substring only", "soda", []string{"creamsoda", "fizz", "drink", "1l"}, 200},
		{"one edit", "abcd", []string{"abce", "zzzzzzz"}, 70},
		{"two edits", "abcd", []string{"abxy", "zzzzzzz"}, 40},
		{"three edits", "abcd", []string{"axyz", "zzzzzzz"}, 0},
		{"minimum distance over fields", "abcd", []string{"axyz", "abxd"}, 70},
		{"no match", "milk", []string{"bread", "zeta", "bakery", "500g"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, tt.fields...); got != tt.want {
				t.Fatalf("Score(%q, %q) = %d, want %d", tt.query, tt.fields, got, tt.want)
			}
		})
	}
}

func TestScoreRuneDistance(t *testing.T) {
	// "молоко" и "молока" отличаются одной руной, но двумя байтами
	if got := Score("молоко", "молока"); got != 70 {
		t.Fatalf("Score = %d, want 70", got)
	}
}
