// Package report turns the outcome of a matching run into console output and
// hands it to downstream stores.
package report

import (
	"context"
	"errors"

	"github.com/joripage/batch-matcher/pkg/orderbook"
	"go.uber.org/zap"
)

// Report is what one matching run produced: the fills in the order they were
// made and the orders left on the book.
type Report struct {
	RunID     string                 `json:"run_id"`
	Ticker    string                 `json:"ticker"`
	Algorithm orderbook.Algorithm    `json:"algorithm"`
	Fills     []orderbook.FillRecord `json:"fills"`
	Book      orderbook.BookSnapshot `json:"book"`
}

// NewReport drains the fills of book and snapshots what remains.
func NewReport(runID string, algo orderbook.Algorithm, book *orderbook.OrderBook) *Report {
	return &Report{
		RunID:     runID,
		Ticker:    book.Ticker(),
		Algorithm: algo,
		Fills:     book.DrainFills(),
		Book:      book.Snapshot(),
	}
}

// FillEvent is the per-fill record sent to the stores.
type FillEvent struct {
	RunID       string `json:"run_id"`
	Ticker      string `json:"ticker"`
	Algorithm   string `json:"algorithm"`
	Seq         int    `json:"seq"`
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Qty         int64  `json:"qty"`
}

// Events numbers the fills from 1 in the order they were made.
func (r *Report) Events() []FillEvent {
	events := make([]FillEvent, 0, len(r.Fills))
	for i, f := range r.Fills {
		events = append(events, FillEvent{
			RunID:       r.RunID,
			Ticker:      r.Ticker,
			Algorithm:   string(r.Algorithm),
			Seq:         i + 1,
			BuyOrderID:  f.BuyOrderID,
			SellOrderID: f.SellOrderID,
			Qty:         f.Qty,
		})
	}
	return events
}

type Publisher interface {
	Name() string
	Publish(ctx context.Context, r *Report) error
}

// PublishAll hands r to every publisher. A failing publisher is logged and
// the rest still run; the joined errors are returned.
func PublishAll(ctx context.Context, r *Report, logger *zap.Logger, publishers ...Publisher) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var errs []error
	for _, p := range publishers {
		if err := p.Publish(ctx, r); err != nil {
			logger.Error("publish report failed", zap.String("publisher", p.Name()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Info("report published", zap.String("publisher", p.Name()), zap.Int("fills", len(r.Fills)))
	}
	return errors.Join(errs...)
}
