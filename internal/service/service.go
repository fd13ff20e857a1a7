// Package service собирает репозитории каталога, журнал цен и поиск
// в один набор операций для внешних клиентов (HTTP, импорт файлов).
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/storekeeper/internal/domain/brands"
	"github.com/Spok95/storekeeper/internal/domain/catalog"
	"github.com/Spok95/storekeeper/internal/domain/dealers"
	"github.com/Spok95/storekeeper/internal/domain/prices"
	"github.com/Spok95/storekeeper/internal/infra/metrics"
	"github.com/Spok95/storekeeper/internal/report"
	"github.com/Spok95/storekeeper/internal/search"
)

type Service struct {
	log     *slog.Logger
	catalog *catalog.Repo
	brands  *brands.Repo
	dealers *dealers.Repo
	ledger  *prices.Ledger
	search  *search.Engine
}

func New(pool *pgxpool.Pool, log *slog.Logger) *Service {
	cat := catalog.NewRepo(pool)
	return &Service{
		log:     log,
		catalog: cat,
		brands:  brands.NewRepo(pool),
		dealers: dealers.NewRepo(pool),
		ledger:  prices.NewLedger(pool),
		search:  search.NewEngine(cat),
	}
}

func observe(op string) func(*error) {
	started := time.Now()
	return func(err *error) { metrics.ObserveOperation(op, started, *err) }
}

/* Dealers */

func (s *Service) RegisterDealer(ctx context.Context, nd dealers.NewDealer) (d *dealers.Dealer, err error) {
	defer observe("register_dealer")(&err)

	d, err = s.dealers.Register(ctx, nd)
	if err != nil {
		s.log.Warn("register dealer failed", "first_name", nd.FirstName, "last_name", nd.LastName, "err", err)
		return nil, err
	}
	s.log.Info("dealer registered", "dealer_id", d.ID)
	return d, nil
}

func (s *Service) ListDealers(ctx context.Context) (ds []dealers.Dealer, err error) {
	defer observe("list_dealers")(&err)
	return s.dealers.List(ctx)
}

func (s *Service) AddDealerLocation(ctx context.Context, dealer dealers.DealerKey, addr dealers.Address, description *string) (l *dealers.Location, err error) {
	defer observe("add_dealer_location")(&err)

	l, err = s.dealers.AddLocation(ctx, dealer, addr, description)
	if err != nil {
		s.log.Warn("add dealer location failed", "err", err)
		return nil, err
	}
	s.log.Info("dealer location added", "address_id", l.Address.ID)
	return l, nil
}

func (s *Service) ListDealerLocations(ctx context.Context, dealer dealers.DealerKey) (ls []dealers.Location, err error) {
	defer observe("list_dealer_locations")(&err)
	return s.dealers.ListLocations(ctx, dealer)
}

/* Catalog */

func (s *Service) RegisterProduct(ctx context.Context, np catalog.NewProduct) (p *catalog.Product, err error) {
	defer observe("register_product")(&err)

	p, err = s.catalog.RegisterProduct(ctx, np)
	if err != nil {
		s.log.Warn("register product failed", "product", np.Name, "brand", np.Brand, "err", err)
		return nil, err
	}
	s.log.Info("product registered", "product_id", p.ID, "brand", p.Brand, "item", p.Item)
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) (ps []catalog.Product, err error) {
	defer observe("list_products")(&err)
	return s.catalog.ListProducts(ctx)
}

func (s *Service) ListBrands(ctx context.Context) (bs []brands.Brand, err error) {
	defer observe("list_brands")(&err)
	return s.brands.List(ctx)
}

func (s *Service) ListItems(ctx context.Context) (is []catalog.Item, err error) {
	defer observe("list_items")(&err)
	return s.catalog.ListItems(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string, parentID *int64) (c *catalog.Category, err error) {
	defer observe("create_category")(&err)
	return s.catalog.CreateCategory(ctx, name, parentID)
}

func (s *Service) ListCategories(ctx context.Context) (cs []catalog.Category, err error) {
	defer observe("list_categories")(&err)
	return s.catalog.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) (err error) {
	defer observe("delete_category")(&err)
	return s.catalog.DeleteCategory(ctx, id)
}

func (s *Service) AssignItemCategory(ctx context.Context, itemName string, categoryID *int64) (it *catalog.Item, err error) {
	defer observe("assign_item_category")(&err)
	return s.catalog.AssignItemCategory(ctx, itemName, categoryID)
}

/* Search */

func (s *Service) Search(ctx context.Context, query string) (ps []catalog.Product, err error) {
	defer observe("search")(&err)

	ps, err = s.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSearch(len(ps))
	s.log.Debug("search", "query", query, "results", len(ps))
	return ps, nil
}

func (s *Service) RecentResults(ctx context.Context) ([]catalog.Product, error) {
	return s.search.RecentResults(ctx)
}

/* Prices */

func (s *Service) RecordPrice(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey, price int64) (e *prices.Entry, err error) {
	defer observe("record_price")(&err)

	e, err = s.ledger.Record(ctx, product, dealer, price)
	if err != nil {
		s.log.Warn("record price failed", "product", product.Name, "dealer", dealer.FirstName+" "+dealer.LastName, "err", err)
		return nil, err
	}
	s.log.Info("price recorded", "product_id", e.ProductID, "dealer_id", e.DealerID, "price", e.Price)
	return e, nil
}

func (s *Service) LatestPricesFor(ctx context.Context, product catalog.ProductKey) (qs []prices.Quote, err error) {
	defer observe("latest_prices")(&err)
	return s.ledger.LatestFor(ctx, product)
}

func (s *Service) PriceHistory(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey) (es []prices.Entry, err error) {
	defer observe("price_history")(&err)
	return s.ledger.History(ctx, product, dealer)
}

/* Price sheets */

// ExportComparison пишет в w xlsx с последними ценами поставщиков на товар.
func (s *Service) ExportComparison(ctx context.Context, product catalog.ProductKey, w io.Writer) (err error) {
	defer observe("export_comparison")(&err)

	// в файл идут значения из каталога, а не из запроса
	p, err := s.catalog.Resolve(ctx, product)
	if err != nil {
		return err
	}
	key := p.Key()
	quotes, err := s.ledger.LatestFor(ctx, key)
	if err != nil {
		return err
	}
	return report.WriteComparison(w, key, quotes)
}

type ImportResult struct {
	Rows     int `json:"rows"`
	Recorded int `json:"recorded"`
}

// ImportQuotes записывает цены из xlsx построчно. На первой ошибке
// останавливается: уже записанные строки остаются в журнале.
func (s *Service) ImportQuotes(ctx context.Context, r io.Reader) (res ImportResult, err error) {
	defer observe("import_quotes")(&err)

	rows, err := report.ReadQuotes(r)
	if err != nil {
		return res, err
	}
	res.Rows = len(rows)
	for _, row := range rows {
		if _, err := s.ledger.Record(ctx, row.Product, row.Dealer, row.Price); err != nil {
			s.log.Warn("import quotes stopped", "line", row.Line, "err", err)
			return res, fmt.Errorf("line %d: %w", row.Line, err)
		}
		res.Recorded++
	}
	s.log.Info("quotes imported", "rows", res.Rows, "recorded", res.Recorded)
	return res, nil
}
