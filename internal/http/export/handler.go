package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ledgersync/internal/encoding"
	"github.com/MrJamesThe3rd/ledgersync/internal/export"
	txHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the filtered ledger as CSV. Besides the transaction list
// filters it accepts charset and delimiter.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := txHandler.ParseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()

	charset, err := encoding.Normalize(q.Get("charset"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := export.Options{Charset: charset}

	if d := q.Get("delimiter"); d != "" {
		if len(d) != 1 || d == `"` || d == "\n" || d == "\r" {
			http.Error(w, "delimiter must be a single character", http.StatusBadRequest)
			return
		}

		opts.Comma = rune(d[0])
	}

	// Buffer so a failed listing can still answer with a proper status.
	var buf bytes.Buffer

	n, err := h.svc.Export(r.Context(), &buf, filter, opts)
	if err != nil {
		if errors.Is(err, encoding.ErrUnsupportedCharset) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to export transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	contentCharset := charset
	if charset == encoding.UTF8BOM {
		contentCharset = encoding.UTF8
	}

	w.Header().Set("Content-Type", "text/csv; charset="+contentCharset)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(filter, time.Now())))
	w.Header().Set("X-Row-Count", strconv.Itoa(n))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
