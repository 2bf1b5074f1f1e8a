// Package protocol defines the message vocabularies for the three inbox
// kinds in the simulation: Market, Teller, and Actor. Each vocabulary is a
// closed tagged-variant type — a sealed interface with a private marker
// method — so receivers dispatch with an exhaustive type switch and treat
// anything else as a stray message to log and skip.
package protocol

import (
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/history"
)

// MarketMsg is a message directed at the Market's inbox.
type MarketMsg interface {
	marketMsg()
}

// BuyRequest asks the Market to route a buy intent to the instrument's
// teller. Shared by the Market and Teller vocabularies.
type BuyRequest struct {
	Order domain.Order
}

// SellRequest asks the Market to route a sell intent to the instrument's
// teller. Shared by the Market and Teller vocabularies.
type SellRequest struct {
	Order domain.Order
}

// Commit is an actor's confirmation that its reservation for its current
// active transaction is in place.
type Commit struct {
	ActorID int
}

// Cancel is an actor's refusal to reserve, or a declared collision.
type Cancel struct {
	ActorID int
}

// RegisterActor records the actor's reply inbox with the Market. The
// Market immediately answers with a History message carrying the shared
// settled-trade log handle.
type RegisterActor struct {
	ActorID int
	Reply   chan<- ActorMsg
}

// MatchRequest is the Teller→Market notification of a matched pair.
type MatchRequest struct {
	Buy  domain.Order
	Sell domain.Order
}

// RevokeRequest asks the Market to withdraw a still-queued order from the
// instrument's teller. Actors use it to replace stale standing orders.
type RevokeRequest struct {
	ActorID    int
	Instrument int
	TxnID      uint64
}

// ActivityCountRequest asks the Market to forward a queue-length query to
// the instrument's teller on behalf of an actor.
type ActivityCountRequest struct {
	ActorID    int
	Instrument int
	Buying     bool
}

func (BuyRequest) marketMsg()           {}
func (SellRequest) marketMsg()          {}
func (Commit) marketMsg()               {}
func (Cancel) marketMsg()               {}
func (RegisterActor) marketMsg()        {}
func (MatchRequest) marketMsg()         {}
func (RevokeRequest) marketMsg()        {}
func (ActivityCountRequest) marketMsg() {}

// TellerMsg is a message directed at a Teller's inbox.
type TellerMsg interface {
	tellerMsg()
}

// Revoke removes a still-queued, unmatched order belonging to the given
// actor and transaction id. It is a no-op if the order already matched.
type Revoke struct {
	ActorID int
	TxnID   uint64
}

// CountRequest asks the teller to report the current queue length on one
// side of its book directly to the actor's reply inbox.
type CountRequest struct {
	Reply  chan<- ActorMsg
	Buying bool
}

func (BuyRequest) tellerMsg()   {}
func (SellRequest) tellerMsg()  {}
func (Revoke) tellerMsg()       {}
func (CountRequest) tellerMsg() {}

// ActorMsg is a message directed at an Actor's inbox.
type ActorMsg interface {
	actorMsg()
}

// StockRequest asks the actor to escrow quantity units of the instrument
// for its side of a matched transaction.
type StockRequest struct {
	Instrument int
	Quantity   int64
}

// MoneyRequest asks the actor to escrow the given amount of cash.
type MoneyRequest struct {
	Amount int64
}

// CommitTransaction finalizes the actor's current reservation. Settled
// carries the counterparty's finalized order so the actor knows the exact
// settled price and quantity.
type CommitTransaction struct {
	Settled domain.Order
}

// AbortTransaction rolls back the actor's current reservation.
type AbortTransaction struct{}

// History hands the actor the shared settled-trade log at registration.
type History struct {
	Log *history.Log
}

// TimeTick is the simulation clock broadcast: current tick and horizon.
type TimeTick struct {
	Now     int64
	Horizon int64
}

// Stop ends the actor's trading. The actor replies with its final report
// and then drains further protocol traffic without acting on it.
type Stop struct {
	Reply chan<- FinalReport
}

// ActivityCount is the teller's answer to an ActivityCountRequest.
type ActivityCount struct {
	Instrument int
	Buying     bool
	Count      int
}

// FinalReport is an actor's closing wallet state, collected at Stop.
type FinalReport struct {
	ActorID int
	Wallet  domain.WalletSnapshot
}

func (StockRequest) actorMsg()      {}
func (MoneyRequest) actorMsg()      {}
func (CommitTransaction) actorMsg() {}
func (AbortTransaction) actorMsg()  {}
func (History) actorMsg()           {}
func (TimeTick) actorMsg()          {}
func (Stop) actorMsg()              {}
func (ActivityCount) actorMsg()     {}
