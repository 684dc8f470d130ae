package feed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cenkalti/backoff"
	"github.com/joripage/batch-matcher/pkg/orderbook"
	"go.uber.org/zap"
)

const (
	FormatCSV = "csv"
	FormatFIX = "fix"
)

type Config struct {
	Path       string `yaml:"path"`
	Format     string `yaml:"format"`
	MaxRetries int    `yaml:"max_retries"`
}

// LoadStats summarises what happened to the records of one load.
type LoadStats struct {
	Read     int
	Admitted int
	Skipped  int // other instruments
	Rejected int // refused by the book
}

// Open picks the source for cfg. An empty format is inferred from the file
// extension and falls back to CSV.
func Open(cfg Config) (Source, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".fix", ".fix44":
			format = FormatFIX
		default:
			format = FormatCSV
		}
	}

	switch format {
	case FormatCSV:
		return NewCSVSource(cfg.Path), nil
	case FormatFIX:
		return NewFIXSource(cfg.Path), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
}

// Fetch reads all records from src, retrying with exponential backoff while
// the source fails for reasons other than bad data or a missing file.
func Fetch(ctx context.Context, src Source, maxRetries int) ([]Record, error) {
	var records []Record

	boff := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(max(maxRetries, 0))),
		ctx,
	)
	err := backoff.Retry(func() error {
		var err error
		records, err = src.Records(ctx)
		if errors.Is(err, ErrMalformedRecord) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		if err != nil {
			zap.S().Warnf("read order feed failed, retrying: %v", err)
		}
		return err
	}, boff)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}

	return records, nil
}

// Load fetches the records of src and admits those for the book's ticker.
// Records the book refuses are logged and counted, they do not stop the load.
func Load(ctx context.Context, src Source, book *orderbook.OrderBook, maxRetries int, logger *zap.Logger) (LoadStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := Fetch(ctx, src, maxRetries)
	if err != nil {
		return LoadStats{}, err
	}

	stats := LoadStats{Read: len(records)}
	for _, rec := range records {
		if book.Ticker() != "" && rec.Ticker != book.Ticker() {
			stats.Skipped++
			logger.Warn("skip order for another ticker",
				zap.String("order_id", rec.OrderID), zap.String("ticker", rec.Ticker))
			continue
		}

		if err := book.AddOrder(rec.Order()); err != nil {
			if !errors.Is(err, orderbook.ErrInvalidOrder) {
				return stats, err
			}
			stats.Rejected++
			logger.Warn("order rejected", zap.String("order_id", rec.OrderID), zap.Error(err))
			continue
		}
		stats.Admitted++
	}

	return stats, nil
}
