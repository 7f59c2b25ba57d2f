package transaction

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Summary aggregates a listing for display.
type Summary struct {
	Count   int
	Pending int
	// Totals is keyed by ISO currency code.
	Totals map[string]Totals
}

type Totals struct {
	Outflow decimal.Decimal
	Inflow  decimal.Decimal
}

// Summarize lists transactions matching filter and totals them per currency.
// Plaid reports money leaving the account as a positive amount.
func (s *Service) Summarize(ctx context.Context, filter ListFilter) (*Summary, error) {
	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Totals: make(map[string]Totals)}

	for _, tx := range txs {
		sum.Count++
		if tx.Pending {
			sum.Pending++
		}

		t := sum.Totals[tx.CurrencyCode]
		if tx.Amount.IsPositive() {
			t.Outflow = t.Outflow.Add(tx.Amount)
		} else {
			t.Inflow = t.Inflow.Add(tx.Amount.Neg())
		}

		sum.Totals[tx.CurrencyCode] = t
	}

	return sum, nil
}
