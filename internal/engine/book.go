package engine

import (
	"sync"

	"github.com/google/btree"

	"github.com/efreitasn/minimarket/internal/domain"
)

// PriceLevel represents an aggregated price level in a book snapshot.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// BookSnapshot is a point-in-time view of one teller's book, aggregated
// into price levels: buys descending by price, sells ascending.
type BookSnapshot struct {
	Buys      []PriceLevel
	Sells     []PriceLevel
	BuyCount  int
	SellCount int
}

// BookMirror holds the latest depth snapshot published by a teller. The
// teller's matching lists are private to its goroutine; the mirror is the
// only window the read side gets, so it is guarded by a readers-writer
// lock. Aggregation order says nothing about matching order — matching is
// arrival-order first-fit, the mirror is diagnostic only.
type BookMirror struct {
	mu       sync.RWMutex
	snapshot BookSnapshot
}

// NewBookMirror creates a mirror with an empty snapshot.
func NewBookMirror() *BookMirror {
	return &BookMirror{}
}

// buyLess orders buy levels by price descending, so Ascend walks from the
// highest bid down.
func buyLess(a, b PriceLevel) bool {
	return a.Price > b.Price
}

// sellLess orders sell levels by price ascending, so Ascend walks from the
// lowest offer up.
func sellLess(a, b PriceLevel) bool {
	return a.Price < b.Price
}

// Publish replaces the snapshot with an aggregation of the given lists.
// Called by the owning teller after every book mutation.
func (m *BookMirror) Publish(buys, sells []domain.Order) {
	snapshot := BookSnapshot{
		Buys:      aggregate(buys, buyLess),
		Sells:     aggregate(sells, sellLess),
		BuyCount:  len(buys),
		SellCount: len(sells),
	}

	m.mu.Lock()
	m.snapshot = snapshot
	m.mu.Unlock()
}

// Snapshot returns the most recently published depth view.
func (m *BookMirror) Snapshot() BookSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// aggregate folds orders into per-price levels ordered by less.
func aggregate(orders []domain.Order, less btree.LessFunc[PriceLevel]) []PriceLevel {
	if len(orders) == 0 {
		return nil
	}

	const degree = 32
	tree := btree.NewG[PriceLevel](degree, less)
	for _, o := range orders {
		level, ok := tree.Get(PriceLevel{Price: o.Price})
		if !ok {
			level = PriceLevel{Price: o.Price}
		}
		level.TotalQuantity += o.Quantity
		level.OrderCount++
		tree.ReplaceOrInsert(level)
	}

	levels := make([]PriceLevel, 0, tree.Len())
	tree.Ascend(func(level PriceLevel) bool {
		levels = append(levels, level)
		return true
	})
	return levels
}
