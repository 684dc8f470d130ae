package repo

import "context"

type IFill interface {
	BulkCreate(ctx context.Context, records []*Fill) ([]*Fill, error)
	ListByRun(ctx context.Context, runID string) ([]*Fill, error)
}
