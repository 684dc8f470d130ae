package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const csvColumns = 7 // ticker,orderID,isMarket,isBuy,price,time,amount

// CSVSource reads the order file layout: a header row followed by
// ticker,orderID,isMarket,isBuy,price,time,amount.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint

	return ReadCSV(ctx, f)
}

// ReadCSV parses every data row of r. The first row is always treated as the
// header.
func ReadCSV(ctx context.Context, r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var records []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func parseCSVRow(row []string) (Record, error) {
	if len(row) < csvColumns {
		return Record{}, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRecord, csvColumns, len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	price, err := decimal.NewFromString(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("%w: price %q", ErrMalformedRecord, row[4])
	}
	hhmm, err := strconv.Atoi(row[5])
	if err != nil {
		return Record{}, fmt.Errorf("%w: time %q", ErrMalformedRecord, row[5])
	}
	amount, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: amount %q", ErrMalformedRecord, row[6])
	}

	return Record{
		Ticker:   row[0],
		OrderID:  row[1],
		IsMarket: row[2] == "true",
		IsBuy:    row[3] == "true",
		Price:    price,
		Time:     hhmm,
		Amount:   amount,
	}, nil
}
