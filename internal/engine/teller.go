package engine

import (
	"context"
	"log/slog"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/protocol"
)

// Teller maintains the two-sided order book for a single instrument and
// pairs orders immediately on arrival. It is single-threaded: all book
// mutation happens on its own message loop, so the buy/sell lists need no
// locking. Matched pairs are forwarded to the Market as MatchRequests.
type Teller struct {
	instrument int
	inbox      chan protocol.TellerMsg
	market     chan<- protocol.MarketMsg
	buys       []domain.Order
	sells      []domain.Order
	mirror     *BookMirror
	logger     *slog.Logger
}

// NewTeller creates a teller for the given instrument. inboxSize bounds
// the teller's message queue.
func NewTeller(instrument int, market chan<- protocol.MarketMsg, inboxSize int, logger *slog.Logger) *Teller {
	return &Teller{
		instrument: instrument,
		inbox:      make(chan protocol.TellerMsg, inboxSize),
		market:     market,
		mirror:     NewBookMirror(),
		logger:     logger.With(slog.Int("instrument", instrument)),
	}
}

// Inbox returns the teller's message queue.
func (t *Teller) Inbox() chan<- protocol.TellerMsg {
	return t.inbox
}

// Mirror returns the read-side depth snapshot holder for this book.
func (t *Teller) Mirror() *BookMirror {
	return t.mirror
}

// Run processes the teller's inbox until ctx is cancelled.
// It must be called on its own goroutine, exactly once.
func (t *Teller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-t.inbox:
			t.handle(ctx, m)
		}
	}
}

func (t *Teller) handle(ctx context.Context, m protocol.TellerMsg) {
	switch msg := m.(type) {
	case protocol.BuyRequest:
		t.submitBuy(ctx, msg.Order)
	case protocol.SellRequest:
		t.submitSell(ctx, msg.Order)
	case protocol.Revoke:
		t.revoke(msg.ActorID, msg.TxnID)
	case protocol.CountRequest:
		t.reportCount(msg)
	default:
		t.logger.Warn("teller ignoring unknown message", slog.Any("msg", m))
	}
}

// submitBuy appends the order to the buy list and scans the sell list in
// arrival order for the first sell from a different actor priced at or
// below the buy price. First fit wins; there is no price-time priority.
// An unmatched order simply stays queued.
func (t *Teller) submitBuy(ctx context.Context, order domain.Order) {
	t.buys = append(t.buys, order)
	for i, sell := range t.sells {
		if sell.ActorID == order.ActorID {
			continue
		}
		if sell.Price <= order.Price {
			t.buys = t.buys[:len(t.buys)-1]
			t.sells = append(t.sells[:i], t.sells[i+1:]...)
			t.emitMatch(ctx, order, sell)
			break
		}
	}
	t.publish()
}

// submitSell is symmetric: it scans the buy list for the first buy from a
// different actor willing to pay at least the sell price.
func (t *Teller) submitSell(ctx context.Context, order domain.Order) {
	t.sells = append(t.sells, order)
	for i, buy := range t.buys {
		if buy.ActorID == order.ActorID {
			continue
		}
		if buy.Price >= order.Price {
			t.sells = t.sells[:len(t.sells)-1]
			t.buys = append(t.buys[:i], t.buys[i+1:]...)
			t.emitMatch(ctx, buy, order)
			break
		}
	}
	t.publish()
}

// revoke removes a still-queued order belonging to the actor/transaction
// from whichever list holds it. No-op if already matched or absent.
func (t *Teller) revoke(actorID int, txnID uint64) {
	for i, o := range t.buys {
		if o.ActorID == actorID && o.TxnID == txnID {
			t.buys = append(t.buys[:i], t.buys[i+1:]...)
			t.publish()
			return
		}
	}
	for i, o := range t.sells {
		if o.ActorID == actorID && o.TxnID == txnID {
			t.sells = append(t.sells[:i], t.sells[i+1:]...)
			t.publish()
			return
		}
	}
}

func (t *Teller) reportCount(req protocol.CountRequest) {
	count := len(t.sells)
	if req.Buying {
		count = len(t.buys)
	}
	select {
	case req.Reply <- protocol.ActivityCount{Instrument: t.instrument, Buying: req.Buying, Count: count}:
	default:
		t.logger.Warn("activity count reply dropped, inbox full")
	}
}

func (t *Teller) emitMatch(ctx context.Context, buy, sell domain.Order) {
	select {
	case t.market <- protocol.MatchRequest{Buy: buy, Sell: sell}:
	case <-ctx.Done():
	}
}

func (t *Teller) publish() {
	t.mirror.Publish(t.buys, t.sells)
}
