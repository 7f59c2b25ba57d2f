package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

type transactionResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	Date             string          `json:"date"`
	Pending          bool            `json:"pending"`
	MerchantName     string          `json:"merchant_name,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currency_code,omitempty"`
	CategoryPrimary  string          `json:"category_primary,omitempty"`
	CategoryDetailed string          `json:"category_detailed,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID,
		AccountID:        tx.AccountID,
		Date:             tx.Date.Format(time.DateOnly),
		Pending:          tx.Pending,
		MerchantName:     tx.MerchantName,
		Amount:           tx.Amount,
		CurrencyCode:     tx.CurrencyCode,
		CategoryPrimary:  tx.Category.Primary,
		CategoryDetailed: tx.Category.Detailed,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type totalsResponse struct {
	Outflow decimal.Decimal `json:"outflow"`
	Inflow  decimal.Decimal `json:"inflow"`
}

type summaryResponse struct {
	Count   int                       `json:"count"`
	Pending int                       `json:"pending"`
	Totals  map[string]totalsResponse `json:"totals"`
}

func toSummaryResponse(s *transaction.Summary) summaryResponse {
	resp := summaryResponse{
		Count:   s.Count,
		Pending: s.Pending,
		Totals:  make(map[string]totalsResponse, len(s.Totals)),
	}

	for code, t := range s.Totals {
		resp.Totals[code] = totalsResponse{Outflow: t.Outflow, Inflow: t.Inflow}
	}

	return resp
}
