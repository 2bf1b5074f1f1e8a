package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/history"
	"github.com/efreitasn/minimarket/internal/protocol"
)

// Pair is a matched (buy, sell) order pair moving through settlement.
type Pair struct {
	Buy  domain.Order
	Sell domain.Order
}

// Market is the settlement coordinator. It owns the per-instrument tellers,
// the actor registry, the active and pending transaction tables, and the
// committed-actor set, and drives the two-phase reservation protocol over
// matched pairs. It is single-threaded relative to its own inbox, which is
// what makes the state transitions below safe without locking.
//
// A pair is Active when reservation requests are out and the Market is
// waiting on Commit/Cancel from both sides. It is Pending when at least one
// party already has a different active transaction; pending pairs are
// retried when that actor frees up. An actor participates in at most one
// active transaction at a time.
type Market struct {
	inbox     chan protocol.MarketMsg
	tellers   map[int]*Teller
	actors    map[int]chan<- protocol.ActorMsg
	active    []Pair
	pending   []Pair
	committed map[int]bool
	hist      *history.Log
	logger    *slog.Logger
}

// NewMarket creates a market with one teller per registered instrument.
// Teller goroutines are spawned by Run.
func NewMarket(instruments []int, hist *history.Log, inboxSize int, logger *slog.Logger) *Market {
	m := &Market{
		inbox:     make(chan protocol.MarketMsg, inboxSize),
		tellers:   make(map[int]*Teller, len(instruments)),
		actors:    make(map[int]chan<- protocol.ActorMsg),
		committed: make(map[int]bool),
		hist:      hist,
		logger:    logger,
	}
	for _, instrument := range instruments {
		m.tellers[instrument] = NewTeller(instrument, m.inbox, inboxSize, logger)
	}
	return m
}

// Inbox returns the market's message queue.
func (m *Market) Inbox() chan<- protocol.MarketMsg {
	return m.inbox
}

// Mirror returns the depth snapshot holder for an instrument's book.
func (m *Market) Mirror(instrument int) (*BookMirror, bool) {
	t, ok := m.tellers[instrument]
	if !ok {
		return nil, false
	}
	return t.Mirror(), true
}

// Run spawns the teller goroutines and processes the market's inbox until
// ctx is cancelled. It must be called on its own goroutine, exactly once.
func (m *Market) Run(ctx context.Context) {
	for _, t := range m.tellers {
		go t.Run(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.inbox:
			m.handle(msg)
		}
	}
}

func (m *Market) handle(msg protocol.MarketMsg) {
	switch v := msg.(type) {
	case protocol.BuyRequest:
		m.route(protocol.BuyRequest{Order: v.Order}, v.Order.Instrument)
	case protocol.SellRequest:
		m.route(protocol.SellRequest{Order: v.Order}, v.Order.Instrument)
	case protocol.RevokeRequest:
		m.route(protocol.Revoke{ActorID: v.ActorID, TxnID: v.TxnID}, v.Instrument)
	case protocol.MatchRequest:
		m.onMatch(Pair{Buy: v.Buy, Sell: v.Sell})
	case protocol.Commit:
		m.onCommit(v.ActorID)
	case protocol.Cancel:
		m.onCancel(v.ActorID)
	case protocol.RegisterActor:
		m.actors[v.ActorID] = v.Reply
		m.sendActor(v.ActorID, protocol.History{Log: m.hist})
	case protocol.ActivityCountRequest:
		m.onActivityCount(v)
	default:
		m.logger.Warn("market ignoring unknown message", slog.Any("msg", msg))
	}
}

// route forwards an order intent to the instrument's teller. An unknown
// instrument is an expected, logged, ignored case. The send never blocks:
// the market loop must keep draining its own inbox or the teller→market
// match path could wedge against it.
func (m *Market) route(msg protocol.TellerMsg, instrument int) {
	t, ok := m.tellers[instrument]
	if !ok {
		m.logger.Warn("order for unknown instrument dropped", slog.Int("instrument", instrument))
		return
	}
	select {
	case t.Inbox() <- msg:
	default:
		m.logger.Error("teller inbox full, delivery dropped", slog.Int("instrument", instrument))
	}
}

// onMatch either activates the matched pair right away or, when either
// party is mid-settlement elsewhere, queues it as pending for later
// promotion. A queued pair is never dropped.
func (m *Market) onMatch(p Pair) {
	if m.hasActive(p.Buy.ActorID) || m.hasActive(p.Sell.ActorID) {
		m.pending = append(m.pending, p)
		return
	}
	m.activate(p)
}

// activate normalizes the pair — the buyer pays the seller's quoted price
// and the fill is the smaller quantity — then sends the money reservation
// to the buyer and the stock reservation to the seller and records the
// pair as active. The reserved amount equals the settlement cost, an upper
// bound by construction, so the actor-side refund can never underflow.
func (m *Market) activate(p Pair) {
	quantity := p.Buy.Quantity
	if p.Sell.Quantity < quantity {
		quantity = p.Sell.Quantity
	}
	p.Buy.Price = p.Sell.Price
	p.Buy.Quantity = quantity
	p.Sell.Quantity = quantity

	m.sendActor(p.Buy.ActorID, protocol.MoneyRequest{Amount: p.Buy.Cost()})
	m.sendActor(p.Sell.ActorID, protocol.StockRequest{Instrument: p.Sell.Instrument, Quantity: quantity})
	m.active = append(m.active, p)
}

// onCommit records the actor's confirmation. Once both parties of the
// active pair have committed, the trade settles: each side is told to
// finalize with the counterparty's settled order, the pair is appended to
// history, and one pending pair per freed actor may be promoted.
// A commit from an actor with no active transaction is a no-op.
func (m *Market) onCommit(actorID int) {
	p, ok := m.activeInvolving(actorID)
	if !ok {
		return
	}
	m.committed[actorID] = true
	if !m.committed[p.Buy.ActorID] || !m.committed[p.Sell.ActorID] {
		return
	}

	delete(m.committed, p.Buy.ActorID)
	delete(m.committed, p.Sell.ActorID)

	m.sendActor(p.Buy.ActorID, protocol.CommitTransaction{Settled: p.Sell})
	m.sendActor(p.Sell.ActorID, protocol.CommitTransaction{Settled: p.Buy})
	m.removeActive(p)
	m.promote(p.Buy.ActorID)
	m.promote(p.Sell.ActorID)

	m.hist.Append(&domain.Trade{
		TradeID:    uuid.New().String(),
		Instrument: p.Buy.Instrument,
		Price:      p.Buy.Price,
		Quantity:   p.Buy.Quantity,
		BuyerID:    p.Buy.ActorID,
		SellerID:   p.Sell.ActorID,
		ExecutedAt: time.Now(),
	})

	m.logger.Info("trade settled",
		slog.Int("instrument", p.Buy.Instrument),
		slog.Int64("price", p.Buy.Price),
		slog.Int64("quantity", p.Buy.Quantity),
		slog.Int("buyer", p.Buy.ActorID),
		slog.Int("seller", p.Sell.ActorID),
	)
}

// onCancel aborts the actor's active transaction: both parties are told to
// roll back their escrow, the tables are cleaned, and pending pairs for
// both freed actors get a promotion attempt. A cancel from an actor with
// no active transaction is a no-op — stray and duplicate signals are
// expected.
func (m *Market) onCancel(actorID int) {
	p, ok := m.activeInvolving(actorID)
	if !ok {
		return
	}

	m.sendActor(p.Buy.ActorID, protocol.AbortTransaction{})
	m.sendActor(p.Sell.ActorID, protocol.AbortTransaction{})

	delete(m.committed, p.Buy.ActorID)
	delete(m.committed, p.Sell.ActorID)
	m.removeActive(p)
	m.promote(p.Buy.ActorID)
	m.promote(p.Sell.ActorID)
}

// promote scans the pending queue in arrival order and activates the first
// pair involving the freed actor whose two parties are both free now. At
// most one pair is promoted per freed actor. Oldest-first, per-actor scans
// mean the policy is FIFO-ish but not globally fair: a pair can be skipped
// repeatedly if its actors keep getting claimed by older entries. That is
// the designed behavior.
func (m *Market) promote(actorID int) {
	for i, p := range m.pending {
		if p.Buy.ActorID != actorID && p.Sell.ActorID != actorID {
			continue
		}
		if m.hasActive(p.Buy.ActorID) || m.hasActive(p.Sell.ActorID) {
			continue
		}
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		m.activate(p)
		return
	}
}

func (m *Market) onActivityCount(req protocol.ActivityCountRequest) {
	reply, ok := m.actors[req.ActorID]
	if !ok {
		m.logger.Warn("activity count for unknown actor dropped", slog.Int("actor", req.ActorID))
		return
	}
	m.route(protocol.CountRequest{Reply: reply, Buying: req.Buying}, req.Instrument)
}

func (m *Market) hasActive(actorID int) bool {
	_, ok := m.activeInvolving(actorID)
	return ok
}

func (m *Market) activeInvolving(actorID int) (Pair, bool) {
	for _, p := range m.active {
		if p.Buy.ActorID == actorID || p.Sell.ActorID == actorID {
			return p, true
		}
	}
	return Pair{}, false
}

func (m *Market) removeActive(p Pair) {
	for i, candidate := range m.active {
		if candidate == p {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

// sendActor delivers a message to a registered actor without blocking the
// market loop. An unknown actor is logged and skipped; a full inbox is a
// delivery failure surfaced in the log.
func (m *Market) sendActor(actorID int, msg protocol.ActorMsg) {
	ch, ok := m.actors[actorID]
	if !ok {
		m.logger.Warn("message for unknown actor dropped", slog.Int("actor", actorID))
		return
	}
	select {
	case ch <- msg:
	default:
		m.logger.Error("actor inbox full, delivery dropped",
			slog.Int("actor", actorID), slog.Any("msg", msg))
	}
}
