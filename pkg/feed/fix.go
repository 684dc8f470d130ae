package feed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/quickfixgo/enum"
	fix42nos "github.com/quickfixgo/fix42/newordersingle"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
)

const soh = "\x01"

// FIXSource reads a file of FIX 4.2 or 4.4 NewOrderSingle messages, one per
// line. Fields may be separated by SOH or by '|'.
type FIXSource struct {
	Path string
}

func NewFIXSource(path string) *FIXSource {
	return &FIXSource{Path: path}
}

func (s *FIXSource) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint

	return ReadFIX(ctx, f)
}

func ReadFIX(ctx context.Context, r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		rec, err := parseNewOrderSingle(strings.ReplaceAll(raw, "|", soh))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, scanner.Err()
}

// newOrderSingle is the part of a NewOrderSingle shared by the FIX versions
// the feed accepts.
type newOrderSingle interface {
	GetClOrdID() (string, quickfix.MessageRejectError)
	GetSymbol() (string, quickfix.MessageRejectError)
	GetSide() (enum.Side, quickfix.MessageRejectError)
	GetOrderQty() (decimal.Decimal, quickfix.MessageRejectError)
	GetTransactTime() (time.Time, quickfix.MessageRejectError)
	GetOrdType() (enum.OrdType, quickfix.MessageRejectError)
	GetPrice() (decimal.Decimal, quickfix.MessageRejectError)
	HasPrice() bool
}

func parseNewOrderSingle(raw string) (Record, error) {
	msg := quickfix.NewMessage()
	if err := quickfix.ParseMessage(msg, bytes.NewBufferString(raw)); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	msgType, rejErr := msg.Header.GetString(tag.MsgType)
	if rejErr != nil || enum.MsgType(msgType) != enum.MsgType_ORDER_SINGLE {
		return Record{}, fmt.Errorf("%w: message type %q is not NewOrderSingle", ErrMalformedRecord, msgType)
	}

	var nos newOrderSingle
	beginString, _ := msg.Header.GetString(tag.BeginString)
	switch beginString {
	case quickfix.BeginStringFIX42:
		nos = fix42nos.FromMessage(msg)
	case quickfix.BeginStringFIX44:
		nos = fix44nos.FromMessage(msg)
	default:
		return Record{}, fmt.Errorf("%w: unsupported BeginString %q", ErrMalformedRecord, beginString)
	}

	clOrdID, rejErr := nos.GetClOrdID()
	if rejErr != nil {
		return Record{}, fmt.Errorf("%w: ClOrdID: %v", ErrMalformedRecord, rejErr)
	}
	symbol, rejErr := nos.GetSymbol()
	if rejErr != nil {
		return Record{}, fmt.Errorf("%w: Symbol: %v", ErrMalformedRecord, rejErr)
	}
	side, rejErr := nos.GetSide()
	if rejErr != nil {
		return Record{}, fmt.Errorf("%w: Side: %v", ErrMalformedRecord, rejErr)
	}
	orderQty, rejErr := nos.GetOrderQty()
	if rejErr != nil {
		return Record{}, fmt.Errorf("%w: OrderQty: %v", ErrMalformedRecord, rejErr)
	}
	transactTime, rejErr := nos.GetTransactTime()
	if rejErr != nil {
		return Record{}, fmt.Errorf("%w: TransactTime: %v", ErrMalformedRecord, rejErr)
	}
	ordType, _ := nos.GetOrdType()

	// market orders may come without a price; the book decides what to do
	price := decimal.Zero
	if nos.HasPrice() {
		price, rejErr = nos.GetPrice()
		if rejErr != nil {
			return Record{}, fmt.Errorf("%w: Price: %v", ErrMalformedRecord, rejErr)
		}
	}

	if !orderQty.Equal(orderQty.Truncate(0)) {
		return Record{}, fmt.Errorf("%w: fractional OrderQty %s", ErrMalformedRecord, orderQty)
	}

	return Record{
		Ticker:   symbol,
		OrderID:  clOrdID,
		IsMarket: ordType == enum.OrdType_MARKET,
		IsBuy:    side == enum.Side_BUY,
		Price:    price,
		Time:     transactTime.UTC().Hour()*100 + transactTime.UTC().Minute(),
		Amount:   orderQty.IntPart(),
	}, nil
}
