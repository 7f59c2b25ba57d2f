// Package reconcile keeps the local ledger in step with the remote banking-data
// provider. Two strategies are offered: a window diff over a closed date range
// and an incremental replay of provider change events from a stored cursor.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

var (
	ErrInvalidWindow = errors.New("end date is before start date")
	ErrTooManyPages  = errors.New("page limit exceeded")
	ErrPersist       = errors.New("persisting sync results")
)

// Mode selects the reconciliation strategy.
type Mode string

const (
	ModeWindow Mode = "window"
	ModeCursor Mode = "cursor"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeWindow, "":
		return ModeWindow, nil
	case ModeCursor:
		return ModeCursor, nil
	}

	return "", fmt.Errorf("unknown sync mode %q", s)
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: [%s, %s]", ErrInvalidWindow, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}

	return nil
}

// LastDays returns the window covering the given number of days up to now.
func LastDays(now time.Time, days int) Window {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

// Account is one linked provider login to synchronize.
type Account struct {
	Name        string
	AccessToken string
}

type TransactionsPageRequest struct {
	Window     Window
	Offset     int
	Limit      int
	AccountIDs []string
}

type TransactionsPage struct {
	Transactions []*transaction.Transaction
	Total        int
}

// ChangesPage is one page of the provider's change stream.
type ChangesPage struct {
	Added      []*transaction.Transaction
	Modified   []*transaction.Transaction
	Removed    []string
	NextCursor string
	HasMore    bool
}

//go:generate mockgen -source=reconcile.go -destination=reconcile_mock.go -package=reconcile

// Provider is the remote banking-data collaborator. Timeouts and transport
// retries are the implementation's concern.
type Provider interface {
	GetItemInfo(ctx context.Context, accessToken string) (*item.Info, error)
	GetBalances(ctx context.Context, accessToken string) ([]*item.Balance, error)
	GetTransactionsPage(ctx context.Context, accessToken string, req TransactionsPageRequest) (*TransactionsPage, error)
	// SyncChangesPage returns changes after cursor. An empty cursor replays from the beginning.
	SyncChangesPage(ctx context.Context, accessToken, cursor string) (*ChangesPage, error)
}

// Store is the local ledger. Writes go through a PersistTx so that one
// account run is applied as a unit.
type Store interface {
	// GetLastSyncCursor returns "" when the item has never been synced.
	GetLastSyncCursor(ctx context.Context, itemID string) (string, error)
	GetTransactionIDs(ctx context.Context, window Window, accountIDs []string) ([]string, error)
	FetchTransactionsByID(ctx context.Context, ids []string) ([]*transaction.Transaction, error)
	// BeginPersist starts the write unit for itemID. Implementations must
	// serialize concurrent units for the same item.
	BeginPersist(ctx context.Context, itemID string) (PersistTx, error)
}

type PersistTx interface {
	SaveItemInfo(ctx context.Context, info *item.Info) error
	SaveBalance(ctx context.Context, itemID string, balance *item.Balance) error
	// SaveTransaction inserts or updates by transaction id.
	SaveTransaction(ctx context.Context, tx *transaction.Transaction) error
	SaveSyncCursor(ctx context.Context, itemID, cursor string) error
	ArchiveTransactions(ctx context.Context, ids []string) error
	Commit() error
	Rollback() error
}
