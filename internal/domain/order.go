package domain

// Side indicates whether an order is a buy or a sell.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order represents a buy or sell intent submitted by an actor. TxnID is
// unique only within the issuing actor and is used to revoke a still-queued
// order. Price and Quantity are rewritten in place when two orders with
// unequal terms are matched: the buyer takes the seller's quoted price and
// the fill is capped to the smaller quantity.
type Order struct {
	TxnID      uint64
	ActorID    int
	Instrument int
	Price      int64 // cents per unit
	Quantity   int64
}

// Cost returns the total in cents for the order at its current terms.
func (o Order) Cost() int64 {
	return o.Price * o.Quantity
}
