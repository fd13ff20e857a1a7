package prices

import (
	"time"

	"github.com/Spok95/storekeeper/internal/domain/dealers"
)

// Entry: одна строка журнала цен. Строки не изменяются и не удаляются.
type Entry struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	DealerID   int64     `json:"dealer_id"`
	Price      int64     `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Quote: актуальная цена поставщика на товар.
type Quote struct {
	Dealer     dealers.Dealer `json:"dealer"`
	Price      int64          `json:"price"`
	RecordedAt time.Time      `json:"recorded_at"`
}
