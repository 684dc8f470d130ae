package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// ErrNoReport is returned when the archive holds no report for a ticker.
var ErrNoReport = errors.New("no archived report")

// ArchivePublisher keeps every report in a local pebble store.
// keys: r:<ticker>:<run_id> holds the report, l:<ticker> the latest run id.
type ArchivePublisher struct {
	db *pebble.DB
}

func OpenArchive(path string) (*ArchivePublisher, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &ArchivePublisher{db: db}, nil
}

func (a *ArchivePublisher) Close() error { return a.db.Close() }

func kReport(ticker, runID string) []byte { return []byte("r:" + ticker + ":" + runID) }
func kLatest(ticker string) []byte        { return []byte("l:" + ticker) }

func (a *ArchivePublisher) Name() string {
	return "archive"
}

func (a *ArchivePublisher) Publish(_ context.Context, r *Report) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	b := a.db.NewBatch()
	defer b.Close() // nolint
	if err := b.Set(kReport(r.Ticker, r.RunID), val, nil); err != nil {
		return err
	}
	if err := b.Set(kLatest(r.Ticker), []byte(r.RunID), nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func (a *ArchivePublisher) Get(ticker, runID string) (*Report, error) {
	val, closer, err := a.db.Get(kReport(ticker, runID))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s run %s", ErrNoReport, ticker, runID)
		}
		return nil, err
	}
	defer closer.Close() // nolint

	var out Report
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &out, nil
}

func (a *ArchivePublisher) Latest(ticker string) (*Report, error) {
	val, closer, err := a.db.Get(kLatest(ticker))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoReport, ticker)
		}
		return nil, err
	}
	runID := string(val)
	_ = closer.Close()

	return a.Get(ticker, runID)
}
