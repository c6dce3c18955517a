// Package httpapi is the transport edge: a thin chi-based HTTP layer over
// the dialogue engine and the catalog provider. It holds no decision logic.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
)

// Routing defaults applied when the client omits the identity triple, kept
// for the chat simulator.
const (
	DefaultTenantID = "studio_nexa"
	DefaultChannel  = "simulator"
	DefaultUserID   = "test_user"
)

// TurnEngine is the dialogue engine contract consumed by the handler.
type TurnEngine interface {
	HandleTurn(ctx context.Context, in contractx.TurnInput) (contractx.TurnOutput, error)
}

type Handler struct {
	engine  TurnEngine
	catalog catalogx.Provider
	version string
}

func NewHandler(engine TurnEngine, catalog catalogx.Provider, version string) *Handler {
	return &Handler{engine: engine, catalog: catalog, version: version}
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var in contractx.TurnInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if in.TenantID == "" {
		in.TenantID = DefaultTenantID
	}
	if in.Channel == "" {
		in.Channel = DefaultChannel
	}
	if in.UserID == "" {
		in.UserID = DefaultUserID
	}

	out, err := h.engine.HandleTurn(r.Context(), in)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user", in.UserID).Msg("turn failed")
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
		"service": "orchestrator",
	})
}

// HandleCatalog exposes the full catalog snapshot, mainly for the chat
// simulator front end.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	snapshot, err := catalogx.Load(r.Context(), h.catalog)
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}
