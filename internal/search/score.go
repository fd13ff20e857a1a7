package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	exactBonus     = 1000
	prefixBonus    = 500
	substringBonus = 200

	// бонус за близость: 100 - 30*d при d <= maxDistance
	distanceBase = 100
	distanceStep = 30
	maxDistance  = 2
)

// Score считает составной балл совпадения. query и поля должны быть
// уже приведены к нижнему регистру. Бонусы складываются независимо.
func Score(query string, fields ...string) int {
	score := 0

	if anyField(fields, func(f string) bool { return f == query }) {
		score += exactBonus
	}
	if anyField(fields, func(f string) bool { return strings.HasPrefix(f, query) }) {
		score += prefixBonus
	}
	if anyField(fields, func(f string) bool { return strings.Contains(f, query) }) {
		score += substringBonus
	}

	if d, ok := minDistance(query, fields); ok && d <= maxDistance {
		score += distanceBase - distanceStep*d
	}
	return score
}

func anyField(fields []string, match func(string) bool) bool {
	for _, f := range fields {
		if match(f) {
			return true
		}
	}
	return false
}

// minDistance: минимальное расстояние Левенштейна (по рунам) от query до полей.
func minDistance(query string, fields []string) (int, bool) {
	best, ok := 0, false
	for _, f := range fields {
		d := levenshtein.ComputeDistance(query, f)
		if !ok || d < best {
			best, ok = d, true
		}
	}
	return best, ok
}
