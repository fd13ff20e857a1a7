package catalog

import "time"

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"` // nil: корневая категория
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID *int64    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product: строка каталога с уже подставленными именами бренда и типа товара.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Item      string    `json:"item"`
	Pack      string    `json:"pack"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductKey: естественный ключ товара: имя + тип + бренд + фасовка.
type ProductKey struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Item  string `json:"item"`
	Pack  string `json:"pack"`
}

func (p Product) Key() ProductKey {
	return ProductKey{Name: p.Name, Brand: p.Brand, Item: p.Item, Pack: p.Pack}
}

// NewProduct: входные данные регистрации товара.
type NewProduct = ProductKey
