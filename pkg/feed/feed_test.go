package feed

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/joripage/batch-matcher/pkg/orderbook"
	"github.com/shopspring/decimal"
)

type stubSource struct {
	records  []Record
	failures int
	err      error
	calls    int
}

func (s *stubSource) Records(ctx context.Context) ([]Record, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return s.records, nil
}

func rec(ticker, id string, isBuy bool, price string, amount int64) Record {
	return Record{Ticker: ticker, OrderID: id, IsBuy: isBuy, Price: decimal.RequireFromString(price), Time: 900, Amount: amount}
}

func TestOpen(t *testing.T) {
	cases := []struct {
		cfg  Config
		want string
	}{
		{Config{Path: "orders.csv"}, "csv"},
		{Config{Path: "orders.fix"}, "fix"},
		{Config{Path: "orders.txt", Format: "FIX"}, "fix"},
		{Config{Path: "orders"}, "csv"},
	}
	for _, c := range cases {
		src, err := Open(c.cfg)
		if err != nil {
			t.Fatalf("open %+v: %v", c.cfg, err)
		}
		switch src.(type) {
		case *CSVSource:
			if c.want != "csv" {
				t.Errorf("%+v: expected %s source, got csv", c.cfg, c.want)
			}
		case *FIXSource:
			if c.want != "fix" {
				t.Errorf("%+v: expected %s source, got fix", c.cfg, c.want)
			}
		}
	}

	if _, err := Open(Config{Path: "x", Format: "xml"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadAdmitsSkipsAndRejects(t *testing.T) {
	src := &stubSource{records: []Record{
		rec("ABC", "1", true, "10.00", 5),
		rec("XYZ", "2", true, "10.00", 5),
		rec("ABC", "3", false, "0", 5),
		rec("ABC", "4", false, "9.00", 5),
	}}
	book := orderbook.NewOrderBook("ABC", nil)

	stats, err := Load(context.Background(), src, book, 0, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := LoadStats{Read: 4, Admitted: 2, Skipped: 1, Rejected: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
	if book.BuyLen() != 1 || book.SellLen() != 1 {
		t.Errorf("expected one order per side, got buys %d sells %d", book.BuyLen(), book.SellLen())
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	src := &stubSource{
		records:  []Record{rec("ABC", "1", true, "10.00", 5)},
		failures: 1,
		err:      errors.New("file busy"),
	}

	records, err := Fetch(context.Background(), src, 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 || src.calls != 2 {
		t.Fatalf("expected success on second call, got %d records after %d calls", len(records), src.calls)
	}
}

func TestFetchDoesNotRetryMalformedData(t *testing.T) {
	src := &stubSource{failures: 10, err: ErrMalformedRecord}

	_, err := Fetch(context.Background(), src, 5)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("malformed data must not be retried, got %d calls", src.calls)
	}
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	src := &stubSource{failures: 10, err: errors.New("file busy")}

	if _, err := Fetch(context.Background(), src, 0); err == nil {
		t.Fatalf("expected error")
	}
	if src.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", src.calls)
	}
}

func TestFetchDoesNotRetryMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := Fetch(context.Background(), src, 5)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
