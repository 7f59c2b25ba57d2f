package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

type errorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type resultResponse struct {
	Account    string           `json:"account"`
	ItemID     string           `json:"item_id,omitempty"`
	Stage      reconcile.Stage  `json:"stage"`
	Counts     reconcile.Counts `json:"counts"`
	Balances   int              `json:"balances_captured"`
	DurationMS int64            `json:"duration_ms"`
	Error      *errorResponse   `json:"error,omitempty"`
}

type summaryResponse struct {
	RunID      uuid.UUID        `json:"run_id"`
	Mode       reconcile.Mode   `json:"mode"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Failed     int              `json:"failed"`
	Totals     reconcile.Counts `json:"totals"`
	Results    []resultResponse `json:"results"`
}

func toResponse(s *reconcile.Summary) summaryResponse {
	resp := summaryResponse{
		RunID:      s.RunID,
		Mode:       s.Mode,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Failed:     s.Failed(),
		Totals:     s.Totals(),
		Results:    make([]resultResponse, len(s.Results)),
	}

	for i, r := range s.Results {
		rr := resultResponse{
			Account:    r.Account,
			Stage:      r.Stage,
			Counts:     r.Counts,
			Balances:   len(r.Balances),
			DurationMS: r.Duration.Milliseconds(),
		}

		if r.Info != nil {
			rr.ItemID = r.Info.ItemID
		}

		if perr, ok := r.ProviderError(); ok {
			rr.Error = &errorResponse{Kind: perr.Kind.String(), Code: perr.Code, Message: perr.Message}
		} else if r.Err != nil {
			rr.Error = &errorResponse{Message: r.Err.Error()}
		}

		resp.Results[i] = rr
	}

	return resp
}
