package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `ticker,orderID,isMarket,isBuy,price,time,amount
ABC,1,false,true,10.00,900,5
ABC,2,false,false,10.00,800,5
ABC, 3 ,true,false, 9.75 ,1015,12
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Ticker != "ABC" || first.OrderID != "1" || first.IsMarket || !first.IsBuy ||
		first.Price.String() != "10" || first.Time != 900 || first.Amount != 5 {
		t.Errorf("unexpected first record %+v", first)
	}

	third := records[2]
	if third.OrderID != "3" || !third.IsMarket || third.IsBuy || third.Price.String() != "9.75" || third.Time != 1015 {
		t.Errorf("unexpected third record %+v", third)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	records, err := ReadCSV(context.Background(), strings.NewReader("ticker,orderID,isMarket,isBuy,price,time,amount\n"))
	if err != nil || len(records) != 0 {
		t.Fatalf("expected no records, got %d (%v)", len(records), err)
	}

	records, err = ReadCSV(context.Background(), strings.NewReader(""))
	if err != nil || len(records) != 0 {
		t.Fatalf("expected no records from empty input, got %d (%v)", len(records), err)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	cases := map[string]string{
		"price":   "ABC,1,false,true,ten,900,5\n",
		"time":    "ABC,1,false,true,10,9am,5\n",
		"amount":  "ABC,1,false,true,10,900,5.5\n",
		"columns": "ABC,1,false,true,10\n",
	}
	for name, row := range cases {
		_, err := ReadCSV(context.Background(), strings.NewReader("header\n"+row))
		if !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: expected ErrMalformedRecord, got %v", name, err)
		}
		if err != nil && !strings.Contains(err.Error(), "line 2") {
			t.Errorf("%s: error should name the line, got %v", name, err)
		}
	}
}

func TestCSVSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := NewCSVSource(path).Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}
