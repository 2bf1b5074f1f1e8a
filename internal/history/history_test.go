package history

import (
	"testing"
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
)

func trade(instrument int, price, quantity int64, at time.Time) *domain.Trade {
	return &domain.Trade{
		Instrument: instrument,
		Price:      price,
		Quantity:   quantity,
		ExecutedAt: at,
	}
}

func TestLog_AppendAndRead(t *testing.T) {
	l := NewLog()
	now := time.Now()

	l.Append(trade(0, 100, 1, now))
	l.Append(trade(0, 110, 2, now))
	l.Append(trade(1, 50, 1, now))

	if got := l.Count(0); got != 2 {
		t.Errorf("Count(0) = %d, want 2", got)
	}
	if got := l.Count(7); got != 0 {
		t.Errorf("Count(7) = %d, want 0", got)
	}

	trades := l.ByInstrument(0)
	if len(trades) != 2 || trades[0].Price != 100 || trades[1].Price != 110 {
		t.Errorf("ByInstrument(0) wrong order or contents: %+v", trades)
	}
	if empty := l.ByInstrument(7); empty == nil || len(empty) != 0 {
		t.Errorf("ByInstrument on unknown instrument should be empty, got %v", empty)
	}
}

func TestLog_ByInstrumentReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Append(trade(0, 100, 1, time.Now()))

	got := l.ByInstrument(0)
	got[0] = nil

	if l.ByInstrument(0)[0] == nil {
		t.Error("caller mutation leaked into the log")
	}
}

func TestLog_LastPrice(t *testing.T) {
	l := NewLog()
	if _, ok := l.LastPrice(0); ok {
		t.Error("empty log has no last price")
	}

	now := time.Now()
	l.Append(trade(0, 100, 1, now))
	l.Append(trade(0, 130, 1, now))

	price, ok := l.LastPrice(0)
	if !ok || price != 130 {
		t.Errorf("LastPrice = %d, %v, want 130, true", price, ok)
	}
}

func TestLog_VWAP(t *testing.T) {
	l := NewLog()
	now := time.Now()

	// Outside the window, excluded.
	l.Append(trade(0, 999, 100, now.Add(-10*time.Minute)))
	// Inside: 100×2 + 130×1 over volume 3 → 110.
	l.Append(trade(0, 100, 2, now.Add(-time.Minute)))
	l.Append(trade(0, 130, 1, now.Add(-30*time.Second)))

	price, n, ok := l.VWAP(0, 5*time.Minute, now)
	if !ok || n != 2 || price != 110 {
		t.Errorf("VWAP = %d, %d, %v, want 110, 2, true", price, n, ok)
	}

	if _, _, ok := l.VWAP(1, 5*time.Minute, now); ok {
		t.Error("instrument with no trades has no vwap")
	}
	if _, _, ok := l.VWAP(0, time.Second, now); ok {
		t.Error("window with no trades has no vwap")
	}
}
