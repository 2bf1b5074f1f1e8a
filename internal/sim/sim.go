// Package sim wires a complete simulation run: one market with a teller
// per instrument, a configured mix of actor strategies, a clock that paces
// the run, and a status board the HTTP read side can watch.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/efreitasn/minimarket/internal/actor"
	"github.com/efreitasn/minimarket/internal/config"
	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/history"
	"github.com/efreitasn/minimarket/internal/protocol"
)

// Sim is an assembled simulation ready to run.
type Sim struct {
	cfg      *config.Config
	market   *engine.Market
	hist     *history.Log
	board    *Board
	registry *domain.InstrumentRegistry
	actors   []*actor.Engine
	inboxes  []chan<- protocol.ActorMsg
	logger   *slog.Logger
}

// New assembles the simulation from configuration. Actor ids are assigned
// sequentially: random, then scripted, then trend, then corporate.
func New(cfg *config.Config, logger *slog.Logger) *Sim {
	hist := history.NewLog()
	board := NewBoard()
	registry := domain.NewInstrumentRegistry()

	instruments := make([]int, cfg.Instruments)
	for i := range instruments {
		instruments[i] = i
		registry.Register(i, "")
	}

	market := engine.NewMarket(instruments, hist, cfg.InboxSize, logger)

	s := &Sim{
		cfg:      cfg,
		market:   market,
		hist:     hist,
		board:    board,
		registry: registry,
		logger:   logger,
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	id := 0
	add := func(strategy actor.Strategy, wallet *domain.Wallet) {
		eng := actor.New(id, wallet, market.Inbox(), strategy, instruments, cfg.InboxSize, board, logger)
		s.actors = append(s.actors, eng)
		s.inboxes = append(s.inboxes, eng.Inbox())
		id++
	}

	for i := 0; i < cfg.RandomActors; i++ {
		add(actor.NewRandomStrategy(rand.New(rand.NewSource(rng.Int63()))), domain.NewWallet(cfg.StartingCash))
	}
	for i := 0; i < cfg.ScriptedActors; i++ {
		add(actor.NewScriptedStrategy(i%cfg.Instruments, cfg.CorporateOffer, 10), domain.NewWallet(cfg.StartingCash))
	}
	for i := 0; i < cfg.TrendActors; i++ {
		add(actor.NewTrendStrategy(), domain.NewWallet(cfg.StartingCash))
	}
	for i := 0; i < cfg.CorporateActors; i++ {
		instrument := i % cfg.Instruments
		wallet := domain.NewWallet(0)
		wallet.AddStock(instrument, cfg.CorporateInventory)
		add(actor.NewCorporateStrategy(instrument, cfg.CorporateOffer, 10), wallet)
	}

	return s
}

// History returns the shared settled-trade log.
func (s *Sim) History() *history.Log {
	return s.hist
}

// Board returns the actor status board.
func (s *Sim) Board() *Board {
	return s.board
}

// Registry returns the instrument registry.
func (s *Sim) Registry() *domain.InstrumentRegistry {
	return s.registry
}

// Market returns the market, for the read side's book mirrors.
func (s *Sim) Market() *engine.Market {
	return s.market
}

// Run starts the market and actor goroutines, drives the clock to the
// horizon, then stops every actor and collects their final reports. It
// blocks for the whole run and returns the reports in actor-id order.
func (s *Sim) Run(ctx context.Context) []protocol.FinalReport {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.market.Run(ctx)
	for _, eng := range s.actors {
		go eng.Run(ctx)
	}

	clock := NewClock(s.cfg.TickInterval, s.cfg.TickCount, s.inboxes)
	clock.Run(ctx)

	return s.stop(ctx)
}

// stop broadcasts Stop to every actor and gathers final reports. An actor
// that does not answer before the shutdown timeout is logged and skipped.
func (s *Sim) stop(ctx context.Context) []protocol.FinalReport {
	replies := make(chan protocol.FinalReport, len(s.inboxes))
	for _, inbox := range s.inboxes {
		select {
		case inbox <- protocol.Stop{Reply: replies}:
		default:
			s.logger.Warn("stop delivery dropped, actor inbox full")
		}
	}

	deadline := time.NewTimer(s.cfg.ShutdownTimeout)
	defer deadline.Stop()

	reports := make([]protocol.FinalReport, 0, len(s.inboxes))
	defer func() {
		sort.Slice(reports, func(i, j int) bool { return reports[i].ActorID < reports[j].ActorID })
	}()
	for len(reports) < len(s.inboxes) {
		select {
		case <-ctx.Done():
			return reports
		case <-deadline.C:
			s.logger.Warn("final report collection timed out",
				slog.Int("collected", len(reports)), slog.Int("expected", len(s.inboxes)))
			return reports
		case r := <-replies:
			reports = append(reports, r)
			s.logReport(r)
		}
	}
	return reports
}

func (s *Sim) logReport(r protocol.FinalReport) {
	attrs := []any{
		slog.Int("actor", r.ActorID),
		slog.String("cash", fmt.Sprintf("%.2f", domain.CentsToDollars(r.Wallet.Cash))),
	}
	for instrument, quantity := range r.Wallet.Holdings {
		symbol, _ := s.registry.Symbol(instrument)
		attrs = append(attrs, slog.Int64(symbol, quantity))
	}
	s.logger.Info("final position", attrs...)
}
