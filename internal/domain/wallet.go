package domain

// StockReservation is stock set aside by an actor pending settlement.
// A zero Quantity means no reservation is outstanding.
type StockReservation struct {
	Instrument int
	Quantity   int64
}

// Wallet holds an actor's cash, per-instrument holdings, and at most one
// in-flight reservation of cash and one of stock. Reserved value is debited
// from the available balance the instant it is set aside and is either
// returned on abort or converted into the counterparty's proceeds on commit.
// A Wallet is mutated only by its owning actor's message loop.
type Wallet struct {
	Cash          int64
	Holdings      map[int]int64 // instrument → quantity
	ReservedCash  int64
	ReservedStock StockReservation
}

// NewWallet creates a wallet with the given starting cash and no holdings.
func NewWallet(cash int64) *Wallet {
	return &Wallet{
		Cash:     cash,
		Holdings: make(map[int]int64),
	}
}

// HasReservation reports whether any cash or stock is currently escrowed.
// An actor never carries two reservations at once; a reservation request
// arriving while this is true is answered with an immediate Cancel.
func (w *Wallet) HasReservation() bool {
	return w.ReservedCash > 0 || w.ReservedStock.Quantity > 0
}

// Quantity returns the held quantity for the given instrument, or 0.
func (w *Wallet) Quantity(instrument int) int64 {
	return w.Holdings[instrument]
}

// AddStock credits quantity units of the instrument to holdings.
func (w *Wallet) AddStock(instrument int, quantity int64) {
	if quantity == 0 {
		return
	}
	w.Holdings[instrument] += quantity
}

// RemoveStock debits quantity units of the instrument from holdings.
// Callers must check Quantity first; the wallet never goes negative.
func (w *Wallet) RemoveStock(instrument int, quantity int64) {
	w.Holdings[instrument] -= quantity
	if w.Holdings[instrument] == 0 {
		delete(w.Holdings, instrument)
	}
}

// Snapshot returns a copy of the wallet suitable for concurrent readers.
func (w *Wallet) Snapshot() WalletSnapshot {
	holdings := make(map[int]int64, len(w.Holdings))
	for instrument, quantity := range w.Holdings {
		holdings[instrument] = quantity
	}
	return WalletSnapshot{
		Cash:          w.Cash,
		Holdings:      holdings,
		ReservedCash:  w.ReservedCash,
		ReservedStock: w.ReservedStock,
	}
}

// WalletSnapshot is an immutable copy of a Wallet taken by its owner.
type WalletSnapshot struct {
	Cash          int64
	Holdings      map[int]int64
	ReservedCash  int64
	ReservedStock StockReservation
}
