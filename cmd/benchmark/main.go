package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/batch-matcher/pkg/orderbook"
	"github.com/shopspring/decimal"
)

const (
	minPrice = 10000 // cents
	maxPrice = 10100
	minQty   = 1
	maxQty   = 100
)

func randomOrder(r *rand.Rand, id int) orderbook.Order {
	side := orderbook.BUY
	if r.Intn(2) == 0 {
		side = orderbook.SELL
	}
	cents := int64(minPrice + r.Intn(maxPrice-minPrice+1))
	minute := r.Intn(8 * 60)

	return orderbook.Order{
		Ticker: "ABC",
		ID:     fmt.Sprintf("ORD-%06d", id),
		Side:   side,
		Price:  decimal.New(cents, -2),
		Time:   (9+minute/60)*100 + minute%60,
		Qty:    int64(r.Intn(maxQty-minQty+1) + minQty),
	}
}

func run(algo orderbook.Algorithm, orders []orderbook.Order) {
	book := orderbook.NewOrderBook("ABC", nil)

	start := time.Now()
	for _, o := range orders {
		if err := book.AddOrder(o); err != nil {
			panic(err)
		}
	}
	loaded := time.Since(start)

	start = time.Now()
	if err := book.Match(algo); err != nil {
		panic(err)
	}
	matched := time.Since(start)

	var totalQty int64
	fills := book.DrainFills()
	for _, f := range fills {
		totalQty += f.Qty
	}

	fmt.Println("--------")
	fmt.Printf("Algorithm         : %s\n", algo)
	fmt.Printf("Total Orders      : %d\n", len(orders))
	fmt.Printf("Total Fills       : %d\n", len(fills))
	fmt.Printf("Total Matched Qty : %d\n", totalQty)
	fmt.Printf("Resting Buy/Sell  : %d/%d\n", book.BuyLen(), book.SellLen())
	fmt.Printf("Load Time         : %s\n", loaded)
	fmt.Printf("Match Time        : %s\n", matched)
}

func main() {
	var numOrders int
	var seed int64
	flag.IntVar(&numOrders, "orders", 1_000_000, "Number of random orders")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	r := rand.New(rand.NewSource(seed))
	orders := make([]orderbook.Order, numOrders)
	for i := range orders {
		orders[i] = randomOrder(r, i+1)
	}

	for _, algo := range []orderbook.Algorithm{orderbook.FIFO, orderbook.PRORATA} {
		run(algo, orders)
	}
}
