package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Spok95/storekeeper/internal/domain/brands"
	"github.com/Spok95/storekeeper/internal/domain/catalog"
	"github.com/Spok95/storekeeper/internal/domain/dealers"
	"github.com/Spok95/storekeeper/internal/domain/prices"
	"github.com/Spok95/storekeeper/internal/infra/db"
	"github.com/Spok95/storekeeper/internal/report"
	"github.com/Spok95/storekeeper/internal/service"
)

// максимальный размер загружаемого xlsx
const maxUpload = 10 << 20

// Catalog: операции, которые обслуживает HTTP API. Реализуется *service.Service.
type Catalog interface {
	RegisterDealer(ctx context.Context, nd dealers.NewDealer) (*dealers.Dealer, error)
	ListDealers(ctx context.Context) ([]dealers.Dealer, error)
	AddDealerLocation(ctx context.Context, dealer dealers.DealerKey, addr dealers.Address, description *string) (*dealers.Location, error)
	ListDealerLocations(ctx context.Context, dealer dealers.DealerKey) ([]dealers.Location, error)

	RegisterProduct(ctx context.Context, np catalog.NewProduct) (*catalog.Product, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListBrands(ctx context.Context) ([]brands.Brand, error)
	ListItems(ctx context.Context) ([]catalog.Item, error)
	CreateCategory(ctx context.Context, name string, parentID *int64) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	AssignItemCategory(ctx context.Context, itemName string, categoryID *int64) (*catalog.Item, error)

	Search(ctx context.Context, query string) ([]catalog.Product, error)
	RecentResults(ctx context.Context) ([]catalog.Product, error)

	RecordPrice(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey, price int64) (*prices.Entry, error)
	LatestPricesFor(ctx context.Context, product catalog.ProductKey) ([]prices.Quote, error)
	PriceHistory(ctx context.Context, product catalog.ProductKey, dealer dealers.DealerKey) ([]prices.Entry, error)
	ExportComparison(ctx context.Context, product catalog.ProductKey, w io.Writer) error
	ImportQuotes(ctx context.Context, r io.Reader) (service.ImportResult, error)
}

var _ Catalog = (*service.Service)(nil)

type Handler struct {
	log *slog.Logger
	svc Catalog
}

func NewHandler(log *slog.Logger, svc Catalog) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dealers", h.listDealers)
	mux.HandleFunc("POST /api/dealers", h.registerDealer)
	mux.HandleFunc("GET /api/dealers/locations", h.listLocations)
	mux.HandleFunc("POST /api/dealers/locations", h.addLocation)

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.registerProduct)
	mux.HandleFunc("GET /api/products/search", h.search)
	mux.HandleFunc("GET /api/products/recent", h.recent)
	mux.HandleFunc("GET /api/brands", h.listBrands)
	mux.HandleFunc("GET /api/items", h.listItems)
	mux.HandleFunc("PUT /api/items/{name}/category", h.assignCategory)
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("POST /api/categories", h.createCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.deleteCategory)

	mux.HandleFunc("POST /api/prices", h.recordPrice)
	mux.HandleFunc("GET /api/prices/latest", h.latestPrices)
	mux.HandleFunc("GET /api/prices/history", h.priceHistory)
	mux.HandleFunc("GET /api/prices/export", h.exportPrices)
	mux.HandleFunc("POST /api/prices/import", h.importPrices)
}

/* helpers */

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, report.ErrBadSheet):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "request_id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), RequestID: RequestID(r.Context())})
}

func (h *Handler) failErr(w http.ResponseWriter, r *http.Request, err error) {
	h.fail(w, r, statusFor(err), err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// пустой список отдаём как [], а не null
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func productKey(q url.Values) catalog.ProductKey {
	return catalog.ProductKey{
		Name:  q.Get("name"),
		Brand: q.Get("brand"),
		Item:  q.Get("item"),
		Pack:  q.Get("pack"),
	}
}

func dealerKey(q url.Values) dealers.DealerKey {
	k := dealers.DealerKey{
		FirstName:   q.Get("first_name"),
		LastName:    q.Get("last_name"),
		CountryCode: q.Get("country_code"),
		PhoneNumber: q.Get("phone_number"),
	}
	if q.Has("middle_name") {
		m := q.Get("middle_name")
		k.MiddleName = &m
	}
	return k
}

/* dealers */

func (h *Handler) listDealers(w http.ResponseWriter, r *http.Request) {
	ds, err := h.svc.ListDealers(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(ds))
}

func (h *Handler) registerDealer(w http.ResponseWriter, r *http.Request) {
	var nd dealers.NewDealer
	if err := decode(r, &nd); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	d, err := h.svc.RegisterDealer(r.Context(), nd)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

type locationRequest struct {
	Dealer      dealers.DealerKey `json:"dealer"`
	Address     dealers.Address   `json:"address"`
	Description *string           `json:"description,omitempty"`
}

func (h *Handler) addLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	l, err := h.svc.AddDealerLocation(r.Context(), req.Dealer, req.Address, req.Description)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	ls, err := h.svc.ListDealerLocations(r.Context(), dealerKey(r.URL.Query()))
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(ls))
}

/* catalog */

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(ps))
}

func (h *Handler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var np catalog.NewProduct
	if err := decode(r, &np); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	p, err := h.svc.RegisterProduct(r.Context(), np)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(ps))
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.RecentResults(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(ps))
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.ListBrands(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(bs))
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	is, err := h.svc.ListItems(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(is))
}

type categoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), req.Name, req.ParentID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(cs))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, r, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		h.failErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	CategoryID *int64 `json:"category_id"`
}

func (h *Handler) assignCategory(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	it, err := h.svc.AssignItemCategory(r.Context(), r.PathValue("name"), req.CategoryID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

/* prices */

type priceRequest struct {
	Product catalog.ProductKey `json:"product"`
	Dealer  dealers.DealerKey  `json:"dealer"`
	Price   *int64             `json:"price"`
}

func (h *Handler) recordPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Price == nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("price is required"))
		return
	}
	e, err := h.svc.RecordPrice(r.Context(), req.Product, req.Dealer, *req.Price)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) latestPrices(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.LatestPricesFor(r.Context(), productKey(r.URL.Query()))
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(qs))
}

func (h *Handler) priceHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	es, err := h.svc.PriceHistory(r.Context(), productKey(q), dealerKey(q))
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(es))
}

func (h *Handler) exportPrices(w http.ResponseWriter, r *http.Request) {
	pk := productKey(r.URL.Query())

	// пишем в буфер: при ошибке ещё можно отдать JSON со статусом
	var buf bytes.Buffer
	if err := h.svc.ExportComparison(r.Context(), pk, &buf); err != nil {
		h.failErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="prices.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) importPrices(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxUpload)
	res, err := h.svc.ImportQuotes(r.Context(), body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(w, r, http.StatusRequestEntityTooLarge, err)
			return
		}
		h.log.Warn("import failed", "request_id", RequestID(r.Context()), "recorded", res.Recorded, "err", err)
		h.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
