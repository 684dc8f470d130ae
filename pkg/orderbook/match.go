package orderbook

// FillRecord is one completed match between a buy and a sell order.
type FillRecord struct {
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Qty         int64  `json:"qty"`
}
