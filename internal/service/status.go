// Package service implements the read-side queries behind the HTTP status
// surface: instrument prices, book depth, trade history, and actor
// wallets. Everything here reads shared, lock-guarded structures; nothing
// touches the engine's message loops.
package service

import (
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/history"
	"github.com/efreitasn/minimarket/internal/sim"
)

// Price is the current-price view for one instrument.
type Price struct {
	Instrument     int
	Symbol         string
	LastPrice      *int64 // nil when nothing has traded
	VWAP           *int64 // nil when the window is empty
	TradesInWindow int
	Window         time.Duration
	TradeCount     int
}

// Book is a depth snapshot for one instrument.
type Book struct {
	Instrument int
	Symbol     string
	Snapshot   engine.BookSnapshot
	SnapshotAt time.Time
}

// ActorStatus is one actor's latest published wallet.
type ActorStatus struct {
	ActorID int
	Wallet  domain.WalletSnapshot
}

// StatusService answers read-only queries over the simulation's shared
// state.
type StatusService struct {
	hist       *history.Log
	board      *sim.Board
	market     *engine.Market
	registry   *domain.InstrumentRegistry
	vwapWindow time.Duration
}

// NewStatusService creates a StatusService with the given dependencies.
func NewStatusService(
	hist *history.Log,
	board *sim.Board,
	market *engine.Market,
	registry *domain.InstrumentRegistry,
	vwapWindow time.Duration,
) *StatusService {
	return &StatusService{
		hist:       hist,
		board:      board,
		market:     market,
		registry:   registry,
		vwapWindow: vwapWindow,
	}
}

// Instruments lists the registered instruments in id order.
func (s *StatusService) Instruments() []Price {
	ids := s.registry.IDs()
	out := make([]Price, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPrice(id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetPrice returns the last settled price and trailing VWAP for an
// instrument. Returns domain.ErrInstrumentNotFound for unknown ids.
func (s *StatusService) GetPrice(instrument int) (Price, error) {
	symbol, ok := s.registry.Symbol(instrument)
	if !ok {
		return Price{}, domain.ErrInstrumentNotFound
	}

	p := Price{
		Instrument: instrument,
		Symbol:     symbol,
		Window:     s.vwapWindow,
		TradeCount: s.hist.Count(instrument),
	}
	if last, ok := s.hist.LastPrice(instrument); ok {
		p.LastPrice = &last
	}
	if vwap, n, ok := s.hist.VWAP(instrument, s.vwapWindow, time.Now()); ok {
		p.VWAP = &vwap
		p.TradesInWindow = n
	}
	return p, nil
}

// GetBook returns the latest published depth snapshot for an instrument.
func (s *StatusService) GetBook(instrument int) (Book, error) {
	symbol, ok := s.registry.Symbol(instrument)
	if !ok {
		return Book{}, domain.ErrInstrumentNotFound
	}
	mirror, ok := s.market.Mirror(instrument)
	if !ok {
		return Book{}, domain.ErrInstrumentNotFound
	}
	return Book{
		Instrument: instrument,
		Symbol:     symbol,
		Snapshot:   mirror.Snapshot(),
		SnapshotAt: time.Now(),
	}, nil
}

// GetTrades returns up to limit most recent settled trades for an
// instrument, newest first. limit <= 0 means all.
func (s *StatusService) GetTrades(instrument int, limit int) ([]*domain.Trade, error) {
	if !s.registry.Exists(instrument) {
		return nil, domain.ErrInstrumentNotFound
	}
	trades := s.hist.ByInstrument(instrument)
	// Newest first.
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

// Actors returns every actor's latest published wallet, in id order.
func (s *StatusService) Actors() []ActorStatus {
	wallets := s.board.Wallets()
	ids := make([]int, 0, len(wallets))
	for id := range wallets {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	out := make([]ActorStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, ActorStatus{ActorID: id, Wallet: wallets[id]})
	}
	return out
}

// GetActor returns one actor's latest published wallet.
func (s *StatusService) GetActor(actorID int) (ActorStatus, error) {
	w, ok := s.board.Wallet(actorID)
	if !ok {
		return ActorStatus{}, domain.ErrActorNotFound
	}
	return ActorStatus{ActorID: actorID, Wallet: w}, nil
}
