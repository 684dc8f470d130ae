// file: pkg/orderbook/orderbook.go

package orderbook

import (
	"fmt"

	"go.uber.org/zap"
)

// OrderBook holds the resting interest of a single instrument and runs
// matching passes over it on request.
//
// An OrderBook is not safe for concurrent use. Books for different
// instruments share nothing and may run on different goroutines.
type OrderBook struct {
	ticker string

	buyOrders  *PriceTimeQueue
	sellOrders *PriceTimeQueue

	fills FillLedger

	nextSeq uint64
	log     *zap.Logger
}

// BookSnapshot is a copy of the resident orders, each side best first.
type BookSnapshot struct {
	Ticker string  `json:"ticker"`
	Buys   []Order `json:"buys"`
	Sells  []Order `json:"sells"`
}

// NewOrderBook creates an empty book. Trace lines from the matching passes go
// to logger at debug level; a nil logger discards them.
func NewOrderBook(ticker string, logger *zap.Logger) *OrderBook {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderBook{
		ticker:     ticker,
		buyOrders:  NewBuyQueue(),
		sellOrders: NewSellQueue(),
		log:        logger.With(zap.String("ticker", ticker)),
	}
}

func (ob *OrderBook) Ticker() string {
	return ob.ticker
}

// AddOrder admits a copy of order to its side of the book. Nothing is
// matched until a matching pass runs.
func (ob *OrderBook) AddOrder(order Order) error {
	if order.Qty <= 0 {
		return fmt.Errorf("%w: order %s has quantity %d", ErrInvalidOrder, order.ID, order.Qty)
	}
	if !order.Price.IsPositive() {
		return fmt.Errorf("%w: order %s has price %s", ErrInvalidOrder, order.ID, order.Price)
	}

	ob.nextSeq++
	order.seq = ob.nextSeq

	switch order.Side {
	case BUY:
		ob.buyOrders.Push(&order)
	case SELL:
		ob.sellOrders.Push(&order)
	default:
		return fmt.Errorf("%w: order %s has side %q", ErrInvalidOrder, order.ID, order.Side)
	}

	return nil
}

// Match runs one pass of the chosen algorithm over the whole book.
func (ob *OrderBook) Match(algo Algorithm) error {
	switch algo {
	case FIFO:
		return ob.MatchFIFO()
	case PRORATA:
		return ob.MatchProRata()
	}
	return fmt.Errorf("%w: %q", errUnknownAlgorithm, algo)
}

// DrainFills returns the fills recorded since the last drain, oldest first.
func (ob *OrderBook) DrainFills() []FillRecord {
	return ob.fills.Drain()
}

func (ob *OrderBook) PendingFills() int {
	return ob.fills.Len()
}

// Snapshot copies what is left on both sides without disturbing the queues.
func (ob *OrderBook) Snapshot() BookSnapshot {
	return BookSnapshot{
		Ticker: ob.ticker,
		Buys:   ob.buyOrders.Sorted(),
		Sells:  ob.sellOrders.Sorted(),
	}
}

func (ob *OrderBook) BuyLen() int {
	return ob.buyOrders.Len()
}

func (ob *OrderBook) SellLen() int {
	return ob.sellOrders.Len()
}

// crossed reports whether the best buy meets the best sell. Both sides must
// be non-empty.
func (ob *OrderBook) crossed() bool {
	buy, err := ob.buyOrders.PeekBest()
	if err != nil {
		return false
	}
	sell, err := ob.sellOrders.PeekBest()
	if err != nil {
		return false
	}
	return buy.Price.GreaterThanOrEqual(sell.Price)
}

func (ob *OrderBook) record(buy, sell *Order, qty int64) {
	ob.fills.Append(FillRecord{
		BuyOrderID:  buy.ID,
		SellOrderID: sell.ID,
		Qty:         qty,
	})
}
