// Package actor implements the trading-agent side of the two-phase
// reservation protocol. One shared engine owns the wallet and the escrow
// rules; what to trade is delegated to a Strategy plug-in.
package actor

import (
	"context"
	"log/slog"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/history"
	"github.com/efreitasn/minimarket/internal/protocol"
)

// StatusSink receives wallet snapshots published by actors on every clock
// tick. The simulation's status board implements it for the HTTP read side.
type StatusSink interface {
	Publish(actorID int, w domain.WalletSnapshot)
}

// Engine runs one actor: it holds the wallet, answers reservation requests
// from the Market, finalizes or rolls back escrow on commit/abort, and
// invokes its Strategy on every clock tick. The wallet is mutated only by
// the engine's own message loop (single writer).
type Engine struct {
	id          int
	wallet      *domain.Wallet
	inbox       chan protocol.ActorMsg
	market      chan<- protocol.MarketMsg
	strategy    Strategy
	instruments []int
	hist        *history.Log
	sink        StatusSink
	depths      map[int]QueueDepth
	stopped     bool
	logger      *slog.Logger
}

// New creates an actor engine. The wallet is owned by the engine from this
// point on. sink may be nil when no status board is wired.
func New(
	id int,
	wallet *domain.Wallet,
	market chan<- protocol.MarketMsg,
	strategy Strategy,
	instruments []int,
	inboxSize int,
	sink StatusSink,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		id:          id,
		wallet:      wallet,
		inbox:       make(chan protocol.ActorMsg, inboxSize),
		market:      market,
		strategy:    strategy,
		instruments: instruments,
		sink:        sink,
		depths:      make(map[int]QueueDepth),
		logger:      logger.With(slog.Int("actor", id)),
	}
}

// Inbox returns the actor's message queue; its address is what gets handed
// to the Market at registration.
func (e *Engine) Inbox() chan<- protocol.ActorMsg {
	return e.inbox
}

// Run registers with the market and processes the inbox until ctx is
// cancelled. Strategy decisions ride on TimeTick messages, so both policy
// actions and inbound protocol handling get scheduled on every beat of the
// clock without any polling sleeps. After a Stop message the loop keeps
// draining and ignoring protocol traffic so stray Commit/Abort messages
// cannot crash a stopped actor.
func (e *Engine) Run(ctx context.Context) {
	e.send(ctx, protocol.RegisterActor{ActorID: e.id, Reply: e.inbox})

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-e.inbox:
			e.handle(ctx, m)
		}
	}
}

func (e *Engine) handle(ctx context.Context, m protocol.ActorMsg) {
	if e.stopped {
		if stop, ok := m.(protocol.Stop); ok {
			e.reply(stop)
		}
		return
	}

	switch msg := m.(type) {
	case protocol.StockRequest:
		e.onStockRequest(ctx, msg)
	case protocol.MoneyRequest:
		e.onMoneyRequest(ctx, msg)
	case protocol.CommitTransaction:
		e.onCommitTransaction(msg.Settled)
	case protocol.AbortTransaction:
		e.onAbortTransaction()
	case protocol.History:
		e.hist = msg.Log
	case protocol.TimeTick:
		e.onTick(ctx, msg)
	case protocol.ActivityCount:
		d := e.depths[msg.Instrument]
		if msg.Buying {
			d.Buys = msg.Count
		} else {
			d.Sells = msg.Count
		}
		e.depths[msg.Instrument] = d
	case protocol.Stop:
		e.stopped = true
		e.reply(msg)
	default:
		e.logger.Warn("actor ignoring unknown message", slog.Any("msg", m))
	}
}

// onStockRequest escrows stock for the seller side of a matched pair. An
// outstanding reservation of either kind means the actor is already
// mid-transaction, and the collision is resolved with an immediate Cancel
// rather than an error. Insufficient holdings also answer Cancel.
func (e *Engine) onStockRequest(ctx context.Context, req protocol.StockRequest) {
	if e.wallet.HasReservation() {
		e.send(ctx, protocol.Cancel{ActorID: e.id})
		return
	}
	if e.wallet.Quantity(req.Instrument) < req.Quantity {
		e.send(ctx, protocol.Cancel{ActorID: e.id})
		return
	}
	e.wallet.RemoveStock(req.Instrument, req.Quantity)
	e.wallet.ReservedStock = domain.StockReservation{Instrument: req.Instrument, Quantity: req.Quantity}
	e.send(ctx, protocol.Commit{ActorID: e.id})
}

// onMoneyRequest is the buyer-side twin: escrow cash or Cancel.
func (e *Engine) onMoneyRequest(ctx context.Context, req protocol.MoneyRequest) {
	if e.wallet.HasReservation() {
		e.send(ctx, protocol.Cancel{ActorID: e.id})
		return
	}
	if e.wallet.Cash < req.Amount {
		e.send(ctx, protocol.Cancel{ActorID: e.id})
		return
	}
	e.wallet.Cash -= req.Amount
	e.wallet.ReservedCash = req.Amount
	e.send(ctx, protocol.Commit{ActorID: e.id})
}

// onCommitTransaction resolves exactly one of the two reservation kinds
// against the counterparty's settled order. The reserved amount is an
// upper bound of the settlement cost by construction, so the refund
// arithmetic cannot underflow.
func (e *Engine) onCommitTransaction(settled domain.Order) {
	if e.wallet.ReservedCash > 0 {
		// Buyer: take delivery, refund whatever escrow the settlement
		// didn't consume.
		e.wallet.AddStock(settled.Instrument, settled.Quantity)
		e.wallet.Cash += e.wallet.ReservedCash - settled.Cost()
		e.wallet.ReservedCash = 0
		return
	}

	if e.wallet.ReservedStock.Quantity > 0 {
		// Seller: collect proceeds, return any unsold escrowed units.
		e.wallet.Cash += settled.Cost()
		leftover := e.wallet.ReservedStock.Quantity - settled.Quantity
		if leftover > 0 {
			e.wallet.AddStock(e.wallet.ReservedStock.Instrument, leftover)
		}
		e.wallet.ReservedStock = domain.StockReservation{}
		return
	}

	e.logger.Warn("commit with no outstanding reservation ignored")
}

// onAbortTransaction unconditionally returns any outstanding escrow.
func (e *Engine) onAbortTransaction() {
	if e.wallet.ReservedStock.Quantity > 0 {
		e.wallet.AddStock(e.wallet.ReservedStock.Instrument, e.wallet.ReservedStock.Quantity)
		e.wallet.ReservedStock = domain.StockReservation{}
	}
	if e.wallet.ReservedCash > 0 {
		e.wallet.Cash += e.wallet.ReservedCash
		e.wallet.ReservedCash = 0
	}
}

// onTick publishes a wallet snapshot and lets the strategy trade. The
// strategy stays quiet until the market has answered registration with the
// history handle.
func (e *Engine) onTick(ctx context.Context, tick protocol.TimeTick) {
	snapshot := e.wallet.Snapshot()
	if e.sink != nil {
		e.sink.Publish(e.id, snapshot)
	}
	if e.hist == nil || e.strategy == nil {
		return
	}

	depth := make(map[int]QueueDepth, len(e.depths))
	for instrument, d := range e.depths {
		depth[instrument] = d
	}
	intents := e.strategy.Decide(Tick{
		Now:         tick.Now,
		Horizon:     tick.Horizon,
		Wallet:      snapshot,
		History:     e.hist,
		Instruments: e.instruments,
		Depth:       depth,
	})
	for _, intent := range intents {
		e.emit(ctx, intent)
	}

	// Refresh queue depths for the next decision.
	for _, instrument := range e.instruments {
		e.send(ctx, protocol.ActivityCountRequest{ActorID: e.id, Instrument: instrument, Buying: true})
		e.send(ctx, protocol.ActivityCountRequest{ActorID: e.id, Instrument: instrument, Buying: false})
	}
}

func (e *Engine) emit(ctx context.Context, intent Intent) {
	order := domain.Order{
		TxnID:      intent.TxnID,
		ActorID:    e.id,
		Instrument: intent.Instrument,
		Price:      intent.Price,
		Quantity:   intent.Quantity,
	}
	switch intent.Kind {
	case IntentBuy:
		if intent.Quantity > 0 {
			e.send(ctx, protocol.BuyRequest{Order: order})
		}
	case IntentSell:
		if intent.Quantity > 0 {
			e.send(ctx, protocol.SellRequest{Order: order})
		}
	case IntentRevoke:
		e.send(ctx, protocol.RevokeRequest{ActorID: e.id, Instrument: intent.Instrument, TxnID: intent.TxnID})
	default:
		e.logger.Warn("strategy produced unknown intent", slog.Any("intent", intent))
	}
}

func (e *Engine) reply(stop protocol.Stop) {
	if stop.Reply == nil {
		return
	}
	stop.Reply <- protocol.FinalReport{ActorID: e.id, Wallet: e.wallet.Snapshot()}
}

// send delivers a message to the market, giving up only on shutdown. The
// market loop never blocks on its own sends, so this cannot deadlock.
func (e *Engine) send(ctx context.Context, msg protocol.MarketMsg) {
	select {
	case e.market <- msg:
	case <-ctx.Done():
	}
}
