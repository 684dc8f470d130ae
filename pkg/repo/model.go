package repo

import "time"

// Fill is one row of the fills table.
type Fill struct {
	ID          int64 `gorm:"primaryKey"`
	RunID       string
	Ticker      string
	Algorithm   string
	Seq         int
	BuyOrderID  string
	SellOrderID string
	Qty         int64
	CreatedAt   time.Time
}

func (Fill) TableName() string {
	return "fills"
}
