package orderbook

import (
	"errors"
	"fmt"
	"testing"
)

func TestAddOrderRejectsInvalid(t *testing.T) {
	ob := NewOrderBook("ABC", nil)

	cases := []Order{
		buy("B0", "10.00", 0, 900),
		buy("B1", "10.00", -3, 900),
		sell("S0", "0", 5, 900),
		sell("S1", "-1.25", 5, 900),
		{ID: "X1", Price: px("10.00"), Qty: 5},
	}
	for _, o := range cases {
		if err := ob.AddOrder(o); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("order %s: expected ErrInvalidOrder, got %v", o.ID, err)
		}
	}

	if ob.BuyLen() != 0 || ob.SellLen() != 0 {
		t.Fatalf("rejected orders must not be resident: buys %d sells %d", ob.BuyLen(), ob.SellLen())
	}
}

func TestAddOrderDoesNotMatch(t *testing.T) {
	ob := newTestBook(t,
		buy("B1", "10.00", 5, 900),
		sell("S1", "9.00", 5, 800),
	)

	if ob.PendingFills() != 0 {
		t.Fatalf("admission must not match, got %d fills", ob.PendingFills())
	}
	if ob.BuyLen() != 1 || ob.SellLen() != 1 {
		t.Fatalf("expected both orders resident")
	}
}

func TestAddOrderCopiesCallerValue(t *testing.T) {
	o := buy("B1", "10.00", 5, 900)
	ob := newTestBook(t, o)
	o.Qty = 1

	if snap := ob.Snapshot(); snap.Buys[0].Qty != 5 {
		t.Fatalf("book must own its copy, got qty %d", snap.Buys[0].Qty)
	}
}

func TestFIFOExactMatch(t *testing.T) {
	ob := newTestBook(t,
		buy("B1", "10.00", 5, 900),
		sell("S1", "10.00", 5, 800),
	)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	fills := ob.DrainFills()
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	if fills[0] != (FillRecord{BuyOrderID: "B1", SellOrderID: "S1", Qty: 5}) {
		t.Errorf("unexpected fill: %+v", fills[0])
	}
	if ob.BuyLen() != 0 || ob.SellLen() != 0 {
		t.Errorf("expected empty book, buys %d sells %d", ob.BuyLen(), ob.SellLen())
	}
}

func TestFIFOPartialMatch(t *testing.T) {
	ob := newTestBook(t,
		buy("B1", "10.00", 8, 900),
		sell("S1", "10.00", 3, 900),
	)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	fills := ob.DrainFills()
	if len(fills) != 1 || fills[0].Qty != 3 {
		t.Fatalf("expected one fill of 3, got %+v", fills)
	}

	snap := ob.Snapshot()
	if len(snap.Sells) != 0 {
		t.Errorf("sell side should be empty, got %+v", snap.Sells)
	}
	if len(snap.Buys) != 1 || snap.Buys[0].ID != "B1" || snap.Buys[0].Qty != 5 {
		t.Errorf("expected B1 resident with qty 5, got %+v", snap.Buys)
	}
}

func TestFIFONoMatchDueToPrice(t *testing.T) {
	ob := newTestBook(t,
		buy("B1", "9.50", 10, 900),
		sell("S1", "10.00", 10, 900),
	)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	if fills := ob.DrainFills(); len(fills) != 0 {
		t.Fatalf("expected no fill, got %+v", fills)
	}

	snap := ob.Snapshot()
	if len(snap.Buys) != 1 || snap.Buys[0].Qty != 10 || len(snap.Sells) != 1 || snap.Sells[0].Qty != 10 {
		t.Fatalf("both orders should be untouched, got %+v", snap)
	}
}

func TestFIFOStopsAtFirstNonCrossingPair(t *testing.T) {
	ob := newTestBook(t,
		buy("B1", "10.00", 5, 900),
		buy("B2", "9.00", 5, 900),
		sell("S1", "10.00", 5, 900),
		sell("S2", "9.50", 5, 1000),
	)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	fills := ob.DrainFills()
	if len(fills) != 1 || fills[0].BuyOrderID != "B1" || fills[0].SellOrderID != "S2" {
		t.Fatalf("expected B1 to take S2 only, got %+v", fills)
	}

	snap := ob.Snapshot()
	if snap.Buys[0].ID != "B2" || snap.Sells[0].ID != "S1" {
		t.Fatalf("best orders after stop should be untouched: %+v", snap)
	}
}

func TestFIFOTimePriority(t *testing.T) {
	ob := newTestBook(t,
		sell("S2", "100.00", 5, 905),
		sell("S1", "100.00", 5, 900),
		buy("B2", "100.00", 5, 1001),
		buy("B1", "100.00", 5, 1000),
	)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	fills := ob.DrainFills()
	if len(fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(fills))
	}
	if fills[0].BuyOrderID != "B1" || fills[0].SellOrderID != "S1" {
		t.Errorf("earliest orders should match first, got %+v", fills[0])
	}
	if fills[1].BuyOrderID != "B2" || fills[1].SellOrderID != "S2" {
		t.Errorf("unexpected second fill %+v", fills[1])
	}
}

func TestFIFOMultiLevelMatch(t *testing.T) {
	orders := []Order{
		sell("S1", "101.00", 5, 900),
		sell("S2", "102.00", 5, 900),
		sell("S3", "103.00", 5, 900),
		buy("B1", "105.00", 15, 900),
	}
	ob := newTestBook(t, orders...)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	fills := ob.DrainFills()
	if len(fills) != 3 {
		t.Fatalf("expected 3 fills, got %d", len(fills))
	}
	for i, want := range []string{"S1", "S2", "S3"} {
		if fills[i].SellOrderID != want {
			t.Errorf("fill %d: expected %s, got %+v", i, want, fills[i])
		}
	}
	assertConserved(t, orders, ob, fills)
}

func TestFIFOConservation(t *testing.T) {
	var orders []Order
	for i := 0; i < 40; i++ {
		price := fmt.Sprintf("%d.%02d", 99+i%3, (i*7)%100)
		if i%2 == 0 {
			orders = append(orders, buy(fmt.Sprintf("B%d", i), price, int64(1+i%9), 900+i))
		} else {
			orders = append(orders, sell(fmt.Sprintf("S%d", i), price, int64(2+i%5), 900+i))
		}
	}
	ob := newTestBook(t, orders...)

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}
	fills := ob.DrainFills()
	assertConserved(t, orders, ob, fills)

	snap := ob.Snapshot()
	if len(snap.Buys) > 0 && len(snap.Sells) > 0 && snap.Buys[0].Price.GreaterThanOrEqual(snap.Sells[0].Price) {
		t.Fatalf("book left crossed: best buy %s best sell %s", snap.Buys[0].Price, snap.Sells[0].Price)
	}
}

func TestFIFOHighVolumeOrders(t *testing.T) {
	ob := NewOrderBook("test", nil)

	num := 10_000
	for i := 0; i < num; i++ {
		side := BUY
		if i%2 == 0 {
			side = SELL
		}
		err := ob.AddOrder(Order{
			ID:    fmt.Sprintf("ORD-%d", i),
			Side:  side,
			Price: px("100.00"),
			Qty:   10,
			Time:  i % 2400,
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := ob.MatchFIFO(); err != nil {
		t.Fatalf("match: %v", err)
	}

	if fills := ob.DrainFills(); len(fills) != num/2 {
		t.Errorf("expected %d matching, got %d", num/2, len(fills))
	}
	if ob.BuyLen() != 0 || ob.SellLen() != 0 {
		t.Errorf("expected empty book")
	}
}

func TestMatchDispatch(t *testing.T) {
	ob := newTestBook(t, buy("B1", "10.00", 1, 900), sell("S1", "10.00", 1, 900))

	if err := ob.Match(Algorithm("LIFO")); !errors.Is(err, errUnknownAlgorithm) {
		t.Fatalf("expected unknown algorithm error, got %v", err)
	}
	if err := ob.Match(FIFO); err != nil {
		t.Fatalf("match: %v", err)
	}
	if ob.PendingFills() != 1 {
		t.Fatalf("expected 1 fill, got %d", ob.PendingFills())
	}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"1": FIFO, "fifo": FIFO, " FIFO ": FIFO,
		"2": PRORATA, "prorata": PRORATA, "pro-rata": PRORATA,
	} {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAlgorithm("3"); err == nil {
		t.Errorf("expected error for unknown choice")
	}
}

func BenchmarkOrderBookMatchFIFO(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ob := NewOrderBook("test", nil)
		for j := 0; j < 10_000; j++ {
			side := SELL
			if j%2 == 0 {
				side = BUY
			}
			_ = ob.AddOrder(Order{
				ID:    fmt.Sprintf("ORD-%d", j),
				Side:  side,
				Price: px(fmt.Sprintf("%d", 100+j%5)),
				Qty:   10,
				Time:  j % 2400,
			})
		}
		b.StartTimer()

		_ = ob.MatchFIFO()
	}
}
