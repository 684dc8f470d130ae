package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"
)

func px(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buy(id, price string, qty int64, hhmm int) Order {
	return Order{Ticker: "ABC", ID: id, Side: BUY, Price: px(price), Qty: qty, Time: hhmm}
}

func sell(id, price string, qty int64, hhmm int) Order {
	return Order{Ticker: "ABC", ID: id, Side: SELL, Price: px(price), Qty: qty, Time: hhmm}
}

func newTestBook(t *testing.T, orders ...Order) *OrderBook {
	t.Helper()
	ob := NewOrderBook("ABC", nil)
	for _, o := range orders {
		if err := ob.AddOrder(o); err != nil {
			t.Fatalf("add order %s: %v", o.ID, err)
		}
	}
	return ob
}

func residentQty(orders []Order) map[string]int64 {
	out := make(map[string]int64, len(orders))
	for _, o := range orders {
		out[o.ID] = o.Qty
	}
	return out
}

func sumFills(fills []FillRecord) int64 {
	var total int64
	for _, f := range fills {
		total += f.Qty
	}
	return total
}

// assertConserved checks that every order's starting quantity equals what is
// still resident plus what it was filled for.
func assertConserved(t *testing.T, orders []Order, ob *OrderBook, fills []FillRecord) {
	t.Helper()
	filled := make(map[string]int64)
	for _, f := range fills {
		if f.Qty <= 0 {
			t.Fatalf("non-positive fill %+v", f)
		}
		filled[f.BuyOrderID] += f.Qty
		filled[f.SellOrderID] += f.Qty
	}

	snap := ob.Snapshot()
	resident := residentQty(append(snap.Buys, snap.Sells...))
	for _, o := range append(snap.Buys, snap.Sells...) {
		if o.Qty <= 0 {
			t.Fatalf("order %s resident with qty %d", o.ID, o.Qty)
		}
	}
	for _, o := range orders {
		if got := resident[o.ID] + filled[o.ID]; got != o.Qty {
			t.Errorf("order %s: resident %d + filled %d != original %d",
				o.ID, resident[o.ID], filled[o.ID], o.Qty)
		}
	}
}
