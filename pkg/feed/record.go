package feed

import (
	"context"

	"github.com/joripage/batch-matcher/pkg/orderbook"
	"github.com/shopspring/decimal"
)

// Record is one order as delivered by a feed, before admission to a book.
type Record struct {
	Ticker   string
	OrderID  string
	IsMarket bool
	IsBuy    bool
	Price    decimal.Decimal
	Time     int // HHMM
	Amount   int64
}

// Source delivers the full batch of records for a run.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

func (r Record) Order() orderbook.Order {
	side := orderbook.SELL
	if r.IsBuy {
		side = orderbook.BUY
	}
	return orderbook.Order{
		Ticker:   r.Ticker,
		ID:       r.OrderID,
		IsMarket: r.IsMarket,
		Side:     side,
		Price:    r.Price,
		Time:     r.Time,
		Qty:      r.Amount,
	}
}
