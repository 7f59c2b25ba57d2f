package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
)

// BalanceSnapshotter captures current balances. Every call is an independent
// snapshot; nothing is compared with earlier ones.
type BalanceSnapshotter struct {
	provider Provider
	now      func() time.Time
}

func NewBalanceSnapshotter(provider Provider) *BalanceSnapshotter {
	return &BalanceSnapshotter{provider: provider, now: time.Now}
}

func (b *BalanceSnapshotter) Snapshot(ctx context.Context, accessToken string) ([]*item.Balance, error) {
	balances, err := b.provider.GetBalances(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching balances: %w", err)
	}

	capturedAt := b.now().UTC()
	for _, bal := range balances {
		if bal.CapturedAt.IsZero() {
			bal.CapturedAt = capturedAt
		}
	}

	return balances, nil
}

// Persist writes each balance tagged with the owning item.
func (b *BalanceSnapshotter) Persist(ctx context.Context, tx PersistTx, itemID string, balances []*item.Balance) error {
	for _, bal := range balances {
		if err := tx.SaveBalance(ctx, itemID, bal); err != nil {
			return fmt.Errorf("saving balance for account %s: %w", bal.AccountID, err)
		}
	}

	return nil
}
