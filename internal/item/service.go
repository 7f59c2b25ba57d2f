package item

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=item
type Repository interface {
	ListItems(ctx context.Context) ([]*Info, error)
	LatestBalances(ctx context.Context, itemID string) ([]*Balance, error)
}

type Service struct {
	repo       Repository
	staleAfter time.Duration
	now        func() time.Time
}

func NewService(repo Repository, staleAfter time.Duration) *Service {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	return &Service{repo: repo, staleAfter: staleAfter, now: time.Now}
}

// Status is an item together with its derived health and most recent balances.
type Status struct {
	Info     *Info
	Health   Health
	Balances []*Balance
}

func (s *Service) Statuses(ctx context.Context) ([]Status, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	now := s.now()
	statuses := make([]Status, 0, len(items))

	for _, info := range items {
		balances, err := s.repo.LatestBalances(ctx, info.ItemID)
		if err != nil {
			return nil, fmt.Errorf("loading balances for item %s: %w", info.ItemID, err)
		}

		statuses = append(statuses, Status{
			Info:     info,
			Health:   info.Health(now, s.staleAfter),
			Balances: balances,
		})
	}

	return statuses, nil
}

func (s *Service) StaleAfter() time.Duration {
	return s.staleAfter
}
