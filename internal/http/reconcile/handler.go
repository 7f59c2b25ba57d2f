package reconcile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

// Defaults fill in whatever a sync request leaves out.
type Defaults struct {
	WindowDays  int
	Parallelism int
	Balances    bool
}

type Handler struct {
	svc      *reconcile.Service
	accounts map[string]string
	defaults Defaults
	now      func() time.Time
}

func NewHandler(svc *reconcile.Service, accounts map[string]string, defaults Defaults) *Handler {
	return &Handler{svc: svc, accounts: accounts, defaults: defaults, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
}

type syncRequest struct {
	Mode      string   `json:"mode"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Accounts  []string `json:"accounts"`
	Balances  *bool    `json:"balances"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	opts, err := h.options(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	accounts, err := reconcile.SelectAccounts(h.accounts, req.Accounts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.svc.SyncAll(r.Context(), accounts, opts)
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("sync failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) options(req syncRequest) (reconcile.Options, error) {
	mode, err := reconcile.ParseMode(req.Mode)
	if err != nil {
		return reconcile.Options{}, err
	}

	window := reconcile.LastDays(h.now(), h.defaults.WindowDays)

	if req.StartDate != "" {
		if window.Start, err = time.Parse(time.DateOnly, req.StartDate); err != nil {
			return reconcile.Options{}, errors.New("start_date must be YYYY-MM-DD")
		}
	}

	if req.EndDate != "" {
		if window.End, err = time.Parse(time.DateOnly, req.EndDate); err != nil {
			return reconcile.Options{}, errors.New("end_date must be YYYY-MM-DD")
		}
	}

	balances := h.defaults.Balances
	if req.Balances != nil {
		balances = *req.Balances
	}

	return reconcile.Options{
		Mode:        mode,
		Window:      window,
		Balances:    balances,
		Parallelism: h.defaults.Parallelism,
	}, nil
}
