package sim

import (
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// Board is the status board: the latest wallet snapshot published by each
// actor, for the HTTP read side and the end-of-run report. Actors publish
// on every clock tick; readers get copies.
type Board struct {
	mu      sync.RWMutex
	wallets map[int]domain.WalletSnapshot
}

// NewBoard creates an empty status board.
func NewBoard() *Board {
	return &Board{
		wallets: make(map[int]domain.WalletSnapshot),
	}
}

// Publish stores the actor's latest wallet snapshot. Implements
// actor.StatusSink.
func (b *Board) Publish(actorID int, w domain.WalletSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wallets[actorID] = w
}

// Wallet returns the latest snapshot for one actor.
func (b *Board) Wallet(actorID int) (domain.WalletSnapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	w, ok := b.wallets[actorID]
	return w, ok
}

// Wallets returns a copy of every actor's latest snapshot.
func (b *Board) Wallets() map[int]domain.WalletSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[int]domain.WalletSnapshot, len(b.wallets))
	for id, w := range b.wallets {
		out[id] = w
	}
	return out
}
