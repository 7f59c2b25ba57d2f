package reconcile

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// DefaultPageSize is the largest page the provider serves for date-range listings.
const DefaultPageSize = 500

// WindowReconciler diffs every transaction the provider reports for a date
// window against the ids already stored for it. Anything stored but no longer
// reported is presumed removed.
//
// A transaction that only flips from pending to settled keeps its id and is
// therefore neither new nor archived.
type WindowReconciler struct {
	provider  Provider
	store     Store
	collector Collector
	pageSize  int
}

func NewWindowReconciler(provider Provider, store Store, collector Collector, pageSize int) *WindowReconciler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &WindowReconciler{provider: provider, store: store, collector: collector, pageSize: pageSize}
}

type WindowResult struct {
	Working    *WorkingSet
	FetchedIDs []string
	NewIDs     []string
	ArchiveIDs []string
	Counts     Counts
}

// ToSave returns the transactions that are not yet stored.
func (r *WindowResult) ToSave() []*transaction.Transaction {
	txs := make([]*transaction.Transaction, 0, len(r.NewIDs))

	for _, id := range r.NewIDs {
		if tx, ok := r.Working.Get(id); ok {
			txs = append(txs, tx)
		}
	}

	return txs
}

func (r *WindowReconciler) Reconcile(ctx context.Context, accessToken string, window Window, scope []string) (*WindowResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	fetched, err := CollectPages(ctx, r.collector, r.pageSize,
		func(ctx context.Context, offset, limit int) ([]*transaction.Transaction, int, error) {
			page, err := r.provider.GetTransactionsPage(ctx, accessToken, TransactionsPageRequest{
				Window:     window,
				Offset:     offset,
				Limit:      limit,
				AccountIDs: scope,
			})
			if err != nil {
				return nil, 0, err
			}

			return page.Transactions, page.Total, nil
		})
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}

	working := NewWorkingSet()
	working.Add(fetched...)
	fetchedIDs := working.IDs()
	accounts := accountIDs(fetched)

	existing, err := r.store.GetTransactionIDs(ctx, window, accounts)
	if err != nil {
		return nil, fmt.Errorf("loading stored transaction ids: %w", err)
	}

	newIDs := difference(fetchedIDs, existing)
	archiveIDs := difference(existing, fetchedIDs)

	// The provider no longer reports these, so their pending flag comes from storage.
	if len(archiveIDs) > 0 {
		stored, err := r.store.FetchTransactionsByID(ctx, archiveIDs)
		if err != nil {
			return nil, fmt.Errorf("loading archived transactions: %w", err)
		}

		working.Add(stored...)
	}

	return &WindowResult{
		Working:    working,
		FetchedIDs: fetchedIDs,
		NewIDs:     newIDs,
		ArchiveIDs: archiveIDs,
		Counts:     windowCounts(working, fetchedIDs, newIDs, archiveIDs, accounts),
	}, nil
}
