// Package search ранжирует каталог по произвольному текстовому запросу.
package search

import (
	"context"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Spok95/storekeeper/internal/domain/catalog"
)

// Limit: максимум результатов одного поиска.
const Limit = 5

type ProductLister interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

type Engine struct {
	products ProductLister
}

func NewEngine(products ProductLister) *Engine { return &Engine{products: products} }

type scored struct {
	product catalog.Product
	score   int
}

// Search возвращает до Limit товаров, отсортированных по убыванию балла.
// При равных баллах сохраняется порядок каталога. Пустой запрос каталог не читает.
func (e *Engine) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	if query == "" {
		return []catalog.Product{}, nil
	}

	products, err := e.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	lower := cases.Lower(language.Und)
	q := lower.String(query)

	results := make([]scored, 0, len(products))
	for _, p := range products {
		s := Score(q,
			lower.String(p.Name),
			lower.String(p.Brand),
			lower.String(p.Item),
			lower.String(p.Pack),
		)
		if s == 0 {
			continue
		}
		results = append(results, scored{product: p, score: s})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > Limit {
		results = results[:Limit]
	}

	out := make([]catalog.Product, 0, len(results))
	for _, r := range results {
		out = append(out, r.product)
	}
	return out, nil
}

// RecentResults всегда пуст: история поисков пока нигде не хранится.
// TODO: завести таблицу recent_search и писать в неё выбранные в Search товары.
func (e *Engine) RecentResults(_ context.Context) ([]catalog.Product, error) {
	return []catalog.Product{}, nil
}
