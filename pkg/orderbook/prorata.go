package orderbook

import (
	"fmt"
	"math"
	"math/bits"

	"go.uber.org/zap"
)

// priceLevel is a run of consecutive sells sharing one price, in queue order.
type priceLevel struct {
	orders []*Order
	total  int64
}

// MatchProRata takes the best buy, collects every sell priced at or below it
// and fills the buy level by level, best price first. Within a level each
// sell gets ceil(B0 * sellQty / levelQty), capped by what either side still
// holds, where B0 is the buy quantity left when the level starts.
func (ob *OrderBook) MatchProRata() error {
	ob.log.Debug("initiating Pro-Rata order-matching",
		zap.Int("buys", ob.buyOrders.Len()), zap.Int("sells", ob.sellOrders.Len()))

	for !ob.buyOrders.IsEmpty() && !ob.sellOrders.IsEmpty() {
		if !ob.crossed() {
			ob.log.Debug("best buy price does not fulfill best sell price, waiting for new orders")
			return nil
		}

		bestBuy, _ := ob.buyOrders.PopBest()
		matching := ob.drainSellsUpTo(bestBuy)

		err := ob.fillLevels(bestBuy, groupLevels(matching))

		for _, sell := range matching {
			if !sell.filled() {
				ob.sellOrders.Push(sell)
			}
		}
		if !bestBuy.filled() {
			ob.buyOrders.Push(bestBuy)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// drainSellsUpTo pops every sell the buy can trade with, in priority order.
func (ob *OrderBook) drainSellsUpTo(buy *Order) []*Order {
	var matching []*Order
	for {
		sell, err := ob.sellOrders.PeekBest()
		if err != nil {
			ob.log.Debug("all remaining sell orders in the orderbook are being filled",
				zap.String("buy_order_id", buy.ID))
			break
		}
		if sell.Price.GreaterThan(buy.Price) {
			break
		}
		sell, _ = ob.sellOrders.PopBest()
		matching = append(matching, sell)
	}
	return matching
}

// groupLevels splits sells that are already in price order into contiguous
// equal-price runs.
func groupLevels(sells []*Order) []priceLevel {
	var levels []priceLevel
	for start := 0; start < len(sells); {
		end := start + 1
		for end < len(sells) && sells[end].Price.Equal(sells[start].Price) {
			end++
		}
		levels = append(levels, priceLevel{orders: sells[start:end]})
		start = end
	}
	return levels
}

func (ob *OrderBook) fillLevels(buy *Order, levels []priceLevel) error {
	for i := range levels {
		if buy.filled() {
			return nil
		}

		level := &levels[i]
		if err := level.sum(); err != nil {
			return err
		}

		ob.log.Debug("current price level of sell orders",
			zap.String("price", level.orders[0].Price.String()),
			zap.Int("orders", len(level.orders)),
			zap.Int64("level_qty", level.total))

		atLevelStart := buy.Qty
		for _, sell := range level.orders {
			entitled := ceilShare(atLevelStart, sell.Qty, level.total)
			fillQty := min(buy.Qty, sell.Qty, entitled)

			// Both reductions are within bounds: level.sum checked sell.Qty
			// and the loop guard keeps buy.Qty positive.
			_ = buy.Reduce(fillQty)
			_ = sell.Reduce(fillQty)
			ob.record(buy, sell, fillQty)

			ob.log.Debug("processed pro-rata fill",
				zap.String("sell_order_id", sell.ID),
				zap.String("buy_order_id", buy.ID),
				zap.Int64("filled", fillQty),
				zap.Int64("sell_remaining", sell.Qty),
				zap.Int64("buy_remaining", buy.Qty))

			if buy.filled() {
				return nil
			}
		}
	}
	return nil
}

// sum validates the level and totals its quantity. Nothing has been filled
// for the level when it fails.
func (l *priceLevel) sum() error {
	if len(l.orders) == 0 {
		return fmt.Errorf("%w: empty price level", ErrInternalInvariant)
	}

	var total int64
	for _, o := range l.orders {
		if o.Qty <= 0 {
			return fmt.Errorf("%w: resident sell %s has quantity %d", ErrInternalInvariant, o.ID, o.Qty)
		}
		if total > math.MaxInt64-o.Qty {
			return fmt.Errorf("%w: price level %s quantity overflows", ErrInternalInvariant, o.Price)
		}
		total += o.Qty
	}
	l.total = total
	return nil
}

// ceilShare returns ceil(qty * part / whole) for 0 < part <= whole without
// overflowing the intermediate product.
func ceilShare(qty, part, whole int64) int64 {
	hi, lo := bits.Mul64(uint64(qty), uint64(part))
	q, r := bits.Div64(hi, lo, uint64(whole))
	if r != 0 {
		q++
	}
	return int64(q)
}
