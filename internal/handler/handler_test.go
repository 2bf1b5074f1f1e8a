package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/history"
	"github.com/efreitasn/minimarket/internal/service"
	"github.com/efreitasn/minimarket/internal/sim"
)

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router http.Handler
	hist   *history.Log
	board  *sim.Board
	market *engine.Market
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hist := history.NewLog()
	board := sim.NewBoard()
	registry := domain.NewInstrumentRegistry()
	registry.Register(0, "ACME")
	registry.Register(1, "")

	// The market is never run; its book mirrors are fed directly.
	market := engine.NewMarket([]int{0, 1}, hist, 16, logger)

	statusSvc := service.NewStatusService(hist, board, market, registry, 5*time.Minute)
	return &testEnv{
		router: NewRouter(statusSvc, logger),
		hist:   hist,
		board:  board,
		market: market,
	}
}

func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()
	rr := env.get(t, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	decodeJSON(t, rr, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListInstruments(t *testing.T) {
	env := newTestEnv()
	rr := env.get(t, "/instruments")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body []priceResponse
	decodeJSON(t, rr, &body)
	if len(body) != 2 {
		t.Fatalf("got %d instruments, want 2", len(body))
	}
	if body[0].Symbol != "ACME" || body[1].Symbol != "INST-1" {
		t.Errorf("symbols = %q, %q", body[0].Symbol, body[1].Symbol)
	}
	if body[0].LastPrice != nil {
		t.Error("untraded instrument must have null last_price")
	}
}

func TestGetPrice(t *testing.T) {
	env := newTestEnv()
	env.hist.Append(&domain.Trade{
		TradeID: "t-1", Instrument: 0, Price: 12550, Quantity: 2, ExecutedAt: time.Now(),
	})

	rr := env.get(t, "/instruments/0/price")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body priceResponse
	decodeJSON(t, rr, &body)
	if body.LastPrice == nil || *body.LastPrice != 125.50 {
		t.Errorf("last_price = %v, want 125.50", body.LastPrice)
	}
	if body.VWAP == nil || *body.VWAP != 125.50 {
		t.Errorf("vwap = %v, want 125.50", body.VWAP)
	}
	if body.TradeCount != 1 || body.TradesInWindow != 1 {
		t.Errorf("counts = %d/%d, want 1/1", body.TradeCount, body.TradesInWindow)
	}
}

func TestGetPrice_Errors(t *testing.T) {
	env := newTestEnv()

	if rr := env.get(t, "/instruments/99/price"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown instrument: status = %d, want 404", rr.Code)
	}
	if rr := env.get(t, "/instruments/abc/price"); rr.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", rr.Code)
	}
}

func TestGetBook(t *testing.T) {
	env := newTestEnv()
	mirror, _ := env.market.Mirror(0)
	mirror.Publish(
		[]domain.Order{{ActorID: 1, Instrument: 0, Price: 10000, Quantity: 2}},
		[]domain.Order{{ActorID: 2, Instrument: 0, Price: 11000, Quantity: 1}},
	)

	rr := env.get(t, "/instruments/0/book")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body bookResponse
	decodeJSON(t, rr, &body)
	if body.BuyCount != 1 || body.SellCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", body.BuyCount, body.SellCount)
	}
	if len(body.Buys) != 1 || body.Buys[0].Price != 100.00 || body.Buys[0].TotalQuantity != 2 {
		t.Errorf("buys = %+v", body.Buys)
	}
	if len(body.Sells) != 1 || body.Sells[0].Price != 110.00 {
		t.Errorf("sells = %+v", body.Sells)
	}
}

func TestGetTrades(t *testing.T) {
	env := newTestEnv()
	now := time.Now()
	for i, price := range []int64{100, 200, 300} {
		env.hist.Append(&domain.Trade{
			TradeID: "t", Instrument: 0, Price: price, Quantity: 1,
			ExecutedAt: now.Add(time.Duration(i) * time.Second),
		})
	}

	rr := env.get(t, "/instruments/0/trades?limit=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body []tradeResponse
	decodeJSON(t, rr, &body)
	if len(body) != 2 {
		t.Fatalf("got %d trades, want 2", len(body))
	}
	// Newest first.
	if body[0].Price != 3.00 || body[1].Price != 2.00 {
		t.Errorf("trades = %+v", body)
	}

	if rr := env.get(t, "/instruments/0/trades?limit=0"); rr.Code != http.StatusBadRequest {
		t.Errorf("limit=0: status = %d, want 400", rr.Code)
	}
}

func TestActors(t *testing.T) {
	env := newTestEnv()
	env.board.Publish(3, domain.WalletSnapshot{
		Cash:          1234,
		Holdings:      map[int]int64{1: 7},
		ReservedCash:  100,
		ReservedStock: domain.StockReservation{Instrument: 0, Quantity: 2},
	})

	rr := env.get(t, "/actors")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var list []actorResponse
	decodeJSON(t, rr, &list)
	if len(list) != 1 || list[0].ActorID != 3 {
		t.Fatalf("actors = %+v", list)
	}

	rr = env.get(t, "/actors/3")
	var body actorResponse
	decodeJSON(t, rr, &body)
	if body.Cash != 12.34 || body.ReservedCash != 1.00 {
		t.Errorf("cash = %v reserved = %v", body.Cash, body.ReservedCash)
	}
	if body.Holdings["1"] != 7 || body.ReservedStock["0"] != 2 {
		t.Errorf("holdings = %v reserved = %v", body.Holdings, body.ReservedStock)
	}

	if rr := env.get(t, "/actors/99"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown actor: status = %d, want 404", rr.Code)
	}
}
