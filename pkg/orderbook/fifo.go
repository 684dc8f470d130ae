package orderbook

import "go.uber.org/zap"

// MatchFIFO pairs the best buy with the best sell, strictly by price then
// time, until the book no longer crosses or one side runs out.
func (ob *OrderBook) MatchFIFO() error {
	ob.log.Debug("initiating FIFO order-matching",
		zap.Int("buys", ob.buyOrders.Len()), zap.Int("sells", ob.sellOrders.Len()))

	for !ob.buyOrders.IsEmpty() && !ob.sellOrders.IsEmpty() {
		// Nothing below the two best quotes can cross if they do not.
		if !ob.crossed() {
			ob.log.Debug("best buy price does not fulfill best sell price, waiting for new orders")
			return nil
		}

		bestBuy, _ := ob.buyOrders.PopBest()
		bestSell, _ := ob.sellOrders.PopBest()

		matchQty := min(bestBuy.Qty, bestSell.Qty)
		if err := bestBuy.Reduce(matchQty); err != nil {
			ob.restore(bestBuy, bestSell)
			return err
		}
		if err := bestSell.Reduce(matchQty); err != nil {
			ob.restore(bestBuy, bestSell)
			return err
		}
		ob.record(bestBuy, bestSell, matchQty)

		if !bestBuy.filled() {
			ob.buyOrders.Push(bestBuy)
		}
		if !bestSell.filled() {
			ob.sellOrders.Push(bestSell)
		}
	}

	return nil
}

// restore puts popped orders that still hold quantity back on their side.
func (ob *OrderBook) restore(orders ...*Order) {
	for _, o := range orders {
		if o.Qty <= 0 {
			continue
		}
		if o.Side == BUY {
			ob.buyOrders.Push(o)
		} else {
			ob.sellOrders.Push(o)
		}
	}
}
