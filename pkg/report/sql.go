package report

import (
	"context"
	"time"

	"github.com/joripage/batch-matcher/pkg/repo"
)

// SQLPublisher stores the fills of a run as rows of the fills table.
type SQLPublisher struct {
	fills repo.IFill
}

func NewSQLPublisher(fills repo.IFill) *SQLPublisher {
	return &SQLPublisher{fills: fills}
}

func (p *SQLPublisher) Name() string {
	return "sql"
}

func (p *SQLPublisher) Publish(ctx context.Context, r *Report) error {
	_, err := p.fills.BulkCreate(ctx, fillRows(r, time.Now()))
	return err
}

func fillRows(r *Report, now time.Time) []*repo.Fill {
	events := r.Events()
	rows := make([]*repo.Fill, 0, len(events))
	for _, ev := range events {
		rows = append(rows, &repo.Fill{
			RunID:       ev.RunID,
			Ticker:      ev.Ticker,
			Algorithm:   ev.Algorithm,
			Seq:         ev.Seq,
			BuyOrderID:  ev.BuyOrderID,
			SellOrderID: ev.SellOrderID,
			Qty:         ev.Qty,
			CreatedAt:   now,
		})
	}
	return rows
}
