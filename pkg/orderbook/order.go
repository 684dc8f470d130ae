package orderbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Order is a resting buy or sell interest. Only Qty changes once the order
// has been admitted to a book.
type Order struct {
	Ticker   string          `json:"ticker"`
	ID       string          `json:"id"`
	IsMarket bool            `json:"is_market"` // carried through, matching does not look at it
	Side     Side            `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Time     int             `json:"time"` // HHMM, tie-break only
	Qty      int64           `json:"qty"`  // remaining quantity

	seq uint64 // admission order, last tie-break
}

// Reduce takes qty off the remaining quantity.
func (o *Order) Reduce(qty int64) error {
	if qty <= 0 || qty > o.Qty {
		return fmt.Errorf("%w: reduce order %s by %d with %d remaining", ErrInternalInvariant, o.ID, qty, o.Qty)
	}
	o.Qty -= qty
	return nil
}

func (o *Order) filled() bool {
	return o.Qty == 0
}
