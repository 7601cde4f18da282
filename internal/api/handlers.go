package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/config"
	"github.com/archimedes-labs/archimedes-backend/internal/markets"
	"github.com/archimedes-labs/archimedes-backend/internal/store"
	"github.com/archimedes-labs/archimedes-backend/internal/watchlists"
	"github.com/archimedes-labs/archimedes-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	marketsSvc *markets.Service
	watchlists watchlists.Store
	enricher   *watchlists.Enricher
	wsHub      *ws.Hub
	cache      *store.Cache
	config     *config.Config
	logger     *zap.SugaredLogger
}

func NewHandler(
	marketsSvc *markets.Service,
	watchlistStore watchlists.Store,
	enricher *watchlists.Enricher,
	wsHub *ws.Hub,
	cache *store.Cache,
	config *config.Config,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		marketsSvc: marketsSvc,
		watchlists: watchlistStore,
		enricher:   enricher,
		wsHub:      wsHub,
		cache:      cache,
		config:     config,
		logger:     logger,
	}
}

// Market endpoints

func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	h.writeOK(w, http.StatusOK, TokensDTO{Tokens: h.marketsSvc.ListTokens()})
}

func (h *Handler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	h.writeOK(w, http.StatusOK, MarketsDTO{Markets: h.marketsSvc.ListMarkets()})
}

func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	market, ok := h.marketsSvc.GetMarketByID(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Market not found", nil)
		return
	}

	dto := MarketDetailDTO{Market: market}
	if feed, ok := h.marketsSvc.LatestPriceFeed(id); ok {
		dto.LatestPriceFeed = &feed
	}

	h.writeOK(w, http.StatusOK, dto)
}

// Watchlist endpoints

func (h *Handler) ListWatchlists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.watchlists.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeOK(w, http.StatusOK, WatchlistsDTO{Watchlists: h.enricher.EnrichWatchlists(lists)})
}

func (h *Handler) CreateWatchlist(w http.ResponseWriter, r *http.Request) {
	var in watchlists.CreateWatchlistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
		return
	}

	if fe := in.Validate(); !fe.Empty() {
		h.writeError(w, http.StatusBadRequest, "Invalid input", fe)
		return
	}

	wl, err := h.watchlists.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeOK(w, http.StatusCreated, WatchlistDTO{Watchlist: wl})
}

func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wl, err := h.watchlists.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	enriched := h.enricher.EnrichWatchlist(*wl)
	h.writeOK(w, http.StatusOK, EnrichedWatchlistDTO{Watchlist: enriched})
}

func (h *Handler) PatchWatchlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch watchlists.PatchWatchlistInput
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
		return
	}

	var wl *watchlists.Watchlist
	var err error

	switch patch.Action {
	case watchlists.ActionUpdateMetadata:
		var in watchlists.UpdateWatchlistInput
		if decodeErr := json.Unmarshal(patch.Data, &in); decodeErr != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			h.writeError(w, http.StatusBadRequest, "Invalid input", fe)
			return
		}
		wl, err = h.watchlists.UpdateMetadata(r.Context(), id, in)

	case watchlists.ActionAddToken:
		var in watchlists.AddTokenInput
		if decodeErr := json.Unmarshal(patch.Data, &in); decodeErr != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			h.writeError(w, http.StatusBadRequest, "Invalid input", fe)
			return
		}
		wl, err = h.watchlists.AddToken(r.Context(), id, in.TokenID)

	case watchlists.ActionAddMarket:
		var in watchlists.AddMarketInput
		if decodeErr := json.Unmarshal(patch.Data, &in); decodeErr != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			h.writeError(w, http.StatusBadRequest, "Invalid input", fe)
			return
		}
		wl, err = h.watchlists.AddMarket(r.Context(), id, in.MarketID)

	case watchlists.ActionRemoveItem:
		var in watchlists.RemoveItemInput
		if decodeErr := json.Unmarshal(patch.Data, &in); decodeErr != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid input", nil)
			return
		}
		if fe := in.Validate(); !fe.Empty() {
			h.writeError(w, http.StatusBadRequest, "Invalid input", fe)
			return
		}
		wl, err = h.watchlists.RemoveItem(r.Context(), id, in.ItemID)

	default:
		h.writeError(w, http.StatusBadRequest, "Invalid action", nil)
		return
	}

	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeOK(w, http.StatusOK, WatchlistDTO{Watchlist: wl})
}

func (h *Handler) DeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.watchlists.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeOK(w, http.StatusOK, DeletedDTO{Success: true})
}

// System endpoints

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeOK(w, http.StatusOK, HealthDTO{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) SystemInfo(w http.ResponseWriter, r *http.Request) {
	h.writeOK(w, http.StatusOK, SystemInfoDTO{
		Service: config.ServiceName,
		Env:     h.config.Env,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
}

// ResetDemoData restores the seed watchlists and clears the enrichment
// price cache. Backends that do not support a reset treat it as a no-op.
func (h *Handler) ResetDemoData(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlists.Reset(r.Context()); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.enricher.Cache().Clear()

	h.writeOK(w, http.StatusOK, DeletedDTO{Success: true})
}

// Health and ops endpoints
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlists.Ping(r.Context()); err != nil {
		h.logger.Warnw("Readiness check failed on store", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := h.cache.Ping(r.Context()); err != nil {
		h.logger.Warnw("Readiness check failed on cache", "error", err)
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

// WebSocket endpoint
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHub.HandleWebSocket(w, r)
}

// Utility methods

func (h *Handler) writeOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, fieldErrors watchlists.FieldErrors) {
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("API error", "message", message, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   ErrorBody{Message: message, Errors: fieldErrors},
	})
}

// writeStoreError maps store sentinel errors onto HTTP statuses: missing
// resources to 404, duplicate items to 409, everything else to 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case watchlists.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err.Error(), nil)
	case watchlists.IsDuplicate(err):
		h.writeError(w, http.StatusConflict, err.Error(), nil)
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}
