package repo

import (
	"context"

	"gorm.io/gorm"
)

const bulkInsertBatchSize = 500

type FillSQLRepo struct {
	db *gorm.DB
}

func NewFillSQLRepo(db *gorm.DB) *FillSQLRepo {
	return &FillSQLRepo{
		db: db,
	}
}

func (r *FillSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *FillSQLRepo) BulkCreate(ctx context.Context, records []*Fill) ([]*Fill, error) {
	if len(records) == 0 {
		return records, nil
	}
	return records, r.dbWithContext(ctx).CreateInBatches(records, bulkInsertBatchSize).Error
}

func (r *FillSQLRepo) ListByRun(ctx context.Context, runID string) ([]*Fill, error) {
	var fills []*Fill
	err := r.dbWithContext(ctx).Where("run_id = ?", runID).Order("seq").Find(&fills).Error
	return fills, err
}
