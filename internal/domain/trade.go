package domain

import "time"

// Trade represents a settled exchange of stock for cash between two actors.
type Trade struct {
	TradeID    string
	Instrument int
	Price      int64 // cents
	Quantity   int64
	BuyerID    int
	SellerID   int
	ExecutedAt time.Time
}
