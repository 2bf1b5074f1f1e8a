package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/engine"
	"github.com/efreitasn/minimarket/internal/service"
)

// StatusHandler handles HTTP requests for the status endpoints.
type StatusHandler struct {
	statusSvc *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusSvc *service.StatusService) *StatusHandler {
	return &StatusHandler{statusSvc: statusSvc}
}

// priceResponse is the JSON response for GET /instruments/{id}/price.
type priceResponse struct {
	Instrument     int      `json:"instrument"`
	Symbol         string   `json:"symbol"`
	LastPrice      *float64 `json:"last_price"`
	VWAP           *float64 `json:"vwap"`
	Window         string   `json:"window"`
	TradesInWindow int      `json:"trades_in_window"`
	TradeCount     int      `json:"trade_count"`
}

// bookLevelResponse is a single aggregated price level.
type bookLevelResponse struct {
	Price         float64 `json:"price"`
	TotalQuantity int64   `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
}

// bookResponse is the JSON response for GET /instruments/{id}/book.
type bookResponse struct {
	Instrument int                 `json:"instrument"`
	Symbol     string              `json:"symbol"`
	Buys       []bookLevelResponse `json:"buys"`
	Sells      []bookLevelResponse `json:"sells"`
	BuyCount   int                 `json:"buy_count"`
	SellCount  int                 `json:"sell_count"`
	SnapshotAt string              `json:"snapshot_at"`
}

// tradeResponse is a single settled trade.
type tradeResponse struct {
	TradeID    string  `json:"trade_id"`
	Price      float64 `json:"price"`
	Quantity   int64   `json:"quantity"`
	BuyerID    int     `json:"buyer_id"`
	SellerID   int     `json:"seller_id"`
	ExecutedAt string  `json:"executed_at"`
}

// actorResponse is one actor's published wallet.
type actorResponse struct {
	ActorID       int              `json:"actor_id"`
	Cash          float64          `json:"cash"`
	ReservedCash  float64          `json:"reserved_cash"`
	Holdings      map[string]int64 `json:"holdings"`
	ReservedStock map[string]int64 `json:"reserved_stock"`
}

// ListInstruments handles GET /instruments.
func (h *StatusHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	prices := h.statusSvc.Instruments()
	out := make([]priceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, toPriceResponse(p))
	}
	WriteJSON(w, http.StatusOK, out)
}

// GetPrice handles GET /instruments/{instrument_id}/price.
func (h *StatusHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "instrument_id")
	if !ok {
		return
	}
	p, err := h.statusSvc.GetPrice(id)
	if err != nil {
		mapStatusError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toPriceResponse(p))
}

// GetBook handles GET /instruments/{instrument_id}/book.
func (h *StatusHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "instrument_id")
	if !ok {
		return
	}
	b, err := h.statusSvc.GetBook(id)
	if err != nil {
		mapStatusError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, bookResponse{
		Instrument: b.Instrument,
		Symbol:     b.Symbol,
		Buys:       toLevelResponses(b.Snapshot.Buys),
		Sells:      toLevelResponses(b.Snapshot.Sells),
		BuyCount:   b.Snapshot.BuyCount,
		SellCount:  b.Snapshot.SellCount,
		SnapshotAt: b.SnapshotAt.UTC().Format(time.RFC3339),
	})
}

// GetTrades handles GET /instruments/{instrument_id}/trades?limit=n.
func (h *StatusHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "instrument_id")
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	trades, err := h.statusSvc.GetTrades(id, limit)
	if err != nil {
		mapStatusError(w, err)
		return
	}
	out := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeResponse{
			TradeID:    t.TradeID,
			Price:      domain.CentsToDollars(t.Price),
			Quantity:   t.Quantity,
			BuyerID:    t.BuyerID,
			SellerID:   t.SellerID,
			ExecutedAt: t.ExecutedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListActors handles GET /actors.
func (h *StatusHandler) ListActors(w http.ResponseWriter, r *http.Request) {
	actors := h.statusSvc.Actors()
	out := make([]actorResponse, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResponse(a))
	}
	WriteJSON(w, http.StatusOK, out)
}

// GetActor handles GET /actors/{actor_id}.
func (h *StatusHandler) GetActor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "actor_id")
	if !ok {
		return
	}
	a, err := h.statusSvc.GetActor(id)
	if err != nil {
		mapStatusError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toActorResponse(a))
}

func toPriceResponse(p service.Price) priceResponse {
	resp := priceResponse{
		Instrument:     p.Instrument,
		Symbol:         p.Symbol,
		Window:         p.Window.String(),
		TradesInWindow: p.TradesInWindow,
		TradeCount:     p.TradeCount,
	}
	if p.LastPrice != nil {
		v := domain.CentsToDollars(*p.LastPrice)
		resp.LastPrice = &v
	}
	if p.VWAP != nil {
		v := domain.CentsToDollars(*p.VWAP)
		resp.VWAP = &v
	}
	return resp
}

func toLevelResponses(levels []engine.PriceLevel) []bookLevelResponse {
	out := make([]bookLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, bookLevelResponse{
			Price:         domain.CentsToDollars(l.Price),
			TotalQuantity: l.TotalQuantity,
			OrderCount:    l.OrderCount,
		})
	}
	return out
}

func toActorResponse(a service.ActorStatus) actorResponse {
	holdings := make(map[string]int64, len(a.Wallet.Holdings))
	for instrument, quantity := range a.Wallet.Holdings {
		holdings[strconv.Itoa(instrument)] = quantity
	}
	reserved := make(map[string]int64)
	if a.Wallet.ReservedStock.Quantity > 0 {
		reserved[strconv.Itoa(a.Wallet.ReservedStock.Instrument)] = a.Wallet.ReservedStock.Quantity
	}
	return actorResponse{
		ActorID:       a.ActorID,
		Cash:          domain.CentsToDollars(a.Wallet.Cash),
		ReservedCash:  domain.CentsToDollars(a.Wallet.ReservedCash),
		Holdings:      holdings,
		ReservedStock: reserved,
	}
}

func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", name+" must be an integer")
		return 0, false
	}
	return id, true
}

// mapStatusError maps domain sentinel errors to HTTP status codes.
func mapStatusError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInstrumentNotFound):
		WriteError(w, http.StatusNotFound, "instrument_not_found", "No such instrument")
	case errors.Is(err, domain.ErrActorNotFound):
		WriteError(w, http.StatusNotFound, "actor_not_found", "No such actor")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Unexpected error")
	}
}
