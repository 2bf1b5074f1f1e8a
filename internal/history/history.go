// Package history holds the shared append-only log of settled trades. The
// log is written only by the Market under its own serialization and read
// concurrently by actors and the HTTP read side, so every accessor takes
// the lock. Readers get copies; the writer may append between a reader's
// individual lookups and no snapshot isolation is promised.
package history

import (
	"sync"
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
)

// Log is a thread-safe append-only trade log keyed by instrument.
// The handle is distributed to actors at registration time.
type Log struct {
	mu     sync.RWMutex
	trades map[int][]*domain.Trade // instrument → trades (chronological)
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{
		trades: make(map[int][]*domain.Trade),
	}
}

// Append adds a settled trade to its instrument's chronological list.
func (l *Log) Append(t *domain.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades[t.Instrument] = append(l.trades[t.Instrument], t)
}

// ByInstrument returns all trades for an instrument in chronological order.
// Returns an empty slice if no trades exist.
func (l *Log) ByInstrument(instrument int) []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := l.trades[instrument]
	if trades == nil {
		return []*domain.Trade{}
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]*domain.Trade, len(trades))
	copy(result, trades)
	return result
}

// Count returns the number of settled trades for an instrument.
func (l *Log) Count(instrument int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades[instrument])
}

// LastPrice returns the most recently settled price for an instrument.
// ok is false when no trade has settled yet.
func (l *Log) LastPrice(instrument int) (price int64, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := l.trades[instrument]
	if len(trades) == 0 {
		return 0, false
	}
	return trades[len(trades)-1].Price, true
}

// VWAP computes the volume-weighted average price over trades executed
// within the trailing window ending at now. Returns the price, the number
// of trades in the window, and ok=false when the window is empty.
func (l *Log) VWAP(instrument int, window time.Duration, now time.Time) (price int64, n int, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cutoff := now.Add(-window)
	var total, volume int64
	for _, t := range l.trades[instrument] {
		if t.ExecutedAt.Before(cutoff) {
			continue
		}
		total += t.Price * t.Quantity
		volume += t.Quantity
		n++
	}
	if volume == 0 {
		return 0, 0, false
	}
	return total / volume, n, true
}
