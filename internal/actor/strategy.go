package actor

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/history"
)

// IntentKind discriminates the actions a strategy can take.
type IntentKind int

const (
	IntentBuy IntentKind = iota + 1
	IntentSell
	IntentRevoke
)

// Intent is a single action decided by a strategy: submit a buy or sell at
// the given terms, or revoke a still-queued order by transaction id.
// Strategies own their actor's transaction-id space — the engine passes
// TxnID through untouched so a strategy can later revoke what it placed.
type Intent struct {
	Kind       IntentKind
	Instrument int
	Price      int64
	Quantity   int64
	TxnID      uint64
}

// QueueDepth is the last reported queue length on each side of one
// instrument's book. Reports arrive asynchronously, so the numbers lag
// the book by at least one tick.
type QueueDepth struct {
	Buys  int
	Sells int
}

// Tick is everything a strategy gets to look at when deciding: the clock,
// a snapshot of its own wallet, the shared settled-trade log, the set of
// traded instruments, and the latest queue-depth reports. The history
// handle is shared with a concurrent writer; lookups are individually
// consistent but not a snapshot.
type Tick struct {
	Now         int64
	Horizon     int64
	Wallet      domain.WalletSnapshot
	History     *history.Log
	Instruments []int
	Depth       map[int]QueueDepth
}

// Strategy decides what an actor trades. Implementations are pure policy:
// they never touch the wallet and never see protocol messages — the engine
// handles reservation, commit, and abort uniformly for all of them.
type Strategy interface {
	Decide(t Tick) []Intent
}
