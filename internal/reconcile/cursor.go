package reconcile

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// CursorReconciler replays the provider's change stream for one item from the
// last committed cursor.
type CursorReconciler struct {
	provider  Provider
	store     Store
	collector Collector
}

func NewCursorReconciler(provider Provider, store Store, collector Collector) *CursorReconciler {
	return &CursorReconciler{provider: provider, store: store, collector: collector}
}

type CursorResult struct {
	Changes *ChangeSet
	// Working merges added and modified transactions, page by page.
	Working        *WorkingSet
	PreviousCursor string
	Counts         Counts
}

// Cursor is the position to commit once the results are persisted.
func (r *CursorResult) Cursor() string {
	return r.Changes.Cursor
}

func (r *CursorResult) ToSave() []*transaction.Transaction {
	return r.Working.Transactions()
}

// Removed lists ids the provider reported as deleted.
func (r *CursorResult) Removed() []string {
	return r.Changes.Removed
}

func (r *CursorReconciler) Reconcile(ctx context.Context, accessToken, itemID string) (*CursorResult, error) {
	previous, err := r.store.GetLastSyncCursor(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading sync cursor: %w", err)
	}

	set, err := DrainChanges(ctx, r.collector, previous,
		func(ctx context.Context, cursor string) (*ChangesPage, error) {
			return r.provider.SyncChangesPage(ctx, accessToken, cursor)
		})
	if err != nil {
		return nil, fmt.Errorf("syncing changes: %w", err)
	}

	working := NewWorkingSet()
	for _, p := range set.pages {
		working.Add(p.Added...)
		working.Add(p.Modified...)
	}

	return &CursorResult{
		Changes:        set,
		Working:        working,
		PreviousCursor: previous,
		Counts:         cursorCounts(working, set),
	}, nil
}
