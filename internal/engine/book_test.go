package engine

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func TestBookMirror_EmptySnapshot(t *testing.T) {
	m := NewBookMirror()
	snap := m.Snapshot()
	if snap.BuyCount != 0 || snap.SellCount != 0 || snap.Buys != nil || snap.Sells != nil {
		t.Errorf("fresh mirror should be empty: %+v", snap)
	}
}

func TestBookMirror_AggregatesLevels(t *testing.T) {
	m := NewBookMirror()
	m.Publish(
		[]domain.Order{
			order(1, 1, 0, 100, 2),
			order(2, 1, 0, 100, 3),
			order(3, 1, 0, 120, 1),
		},
		[]domain.Order{
			order(4, 1, 0, 130, 5),
			order(5, 1, 0, 125, 1),
		},
	)

	snap := m.Snapshot()
	if snap.BuyCount != 3 || snap.SellCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", snap.BuyCount, snap.SellCount)
	}

	// Buys descend: 120 then 100 (aggregated).
	if len(snap.Buys) != 2 {
		t.Fatalf("buy levels = %d, want 2", len(snap.Buys))
	}
	if snap.Buys[0].Price != 120 || snap.Buys[0].TotalQuantity != 1 || snap.Buys[0].OrderCount != 1 {
		t.Errorf("top bid level wrong: %+v", snap.Buys[0])
	}
	if snap.Buys[1].Price != 100 || snap.Buys[1].TotalQuantity != 5 || snap.Buys[1].OrderCount != 2 {
		t.Errorf("aggregated bid level wrong: %+v", snap.Buys[1])
	}

	// Sells ascend: 125 then 130.
	if len(snap.Sells) != 2 || snap.Sells[0].Price != 125 || snap.Sells[1].Price != 130 {
		t.Errorf("sell levels wrong: %+v", snap.Sells)
	}
}

func TestBookMirror_PublishReplaces(t *testing.T) {
	m := NewBookMirror()
	m.Publish([]domain.Order{order(1, 1, 0, 100, 2)}, nil)
	m.Publish(nil, []domain.Order{order(2, 1, 0, 90, 1)})

	snap := m.Snapshot()
	if snap.BuyCount != 0 || snap.SellCount != 1 {
		t.Errorf("snapshot not replaced: %+v", snap)
	}
}
