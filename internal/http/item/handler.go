package item

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
)

type Handler struct {
	svc *item.Service
}

func NewHandler(svc *item.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type balanceResponse struct {
	AccountID    string           `json:"account_id"`
	Name         string           `json:"name,omitempty"`
	Type         string           `json:"type,omitempty"`
	Subtype      string           `json:"subtype,omitempty"`
	Mask         string           `json:"mask,omitempty"`
	Current      *decimal.Decimal `json:"current"`
	Available    *decimal.Decimal `json:"available"`
	Limit        *decimal.Decimal `json:"limit"`
	CurrencyCode string           `json:"currency_code,omitempty"`
	CapturedAt   time.Time        `json:"captured_at"`
}

type itemResponse struct {
	ItemID               string            `json:"item_id"`
	InstitutionID        string            `json:"institution_id,omitempty"`
	Health               item.Health       `json:"health"`
	ConsentExpiresAt     *time.Time        `json:"consent_expires_at,omitempty"`
	LastFailedUpdate     *time.Time        `json:"last_failed_update,omitempty"`
	LastSuccessfulUpdate *time.Time        `json:"last_successful_update,omitempty"`
	Balances             []balanceResponse `json:"balances"`
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func toResponse(s item.Status) itemResponse {
	resp := itemResponse{
		ItemID:               s.Info.ItemID,
		InstitutionID:        s.Info.InstitutionID,
		Health:               s.Health,
		ConsentExpiresAt:     s.Info.ConsentExpiresAt,
		LastFailedUpdate:     s.Info.LastFailedUpdate,
		LastSuccessfulUpdate: s.Info.LastSuccessfulUpdate,
		Balances:             make([]balanceResponse, len(s.Balances)),
	}

	for i, b := range s.Balances {
		resp.Balances[i] = balanceResponse{
			AccountID:    b.AccountID,
			Name:         b.Name,
			Type:         b.Type,
			Subtype:      b.Subtype,
			Mask:         b.Mask,
			Current:      nullable(b.Current),
			Available:    nullable(b.Available),
			Limit:        nullable(b.Limit),
			CurrencyCode: b.CurrencyCode,
			CapturedAt:   b.CapturedAt,
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.Statuses(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]itemResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = toResponse(s)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
