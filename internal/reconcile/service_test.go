package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

type fixture struct {
	provider *reconcile.MockProvider
	store    *reconcile.MockStore
	tx       *reconcile.MockPersistTx
	svc      *reconcile.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		provider: reconcile.NewMockProvider(ctrl),
		store:    reconcile.NewMockStore(ctrl),
		tx:       reconcile.NewMockPersistTx(ctrl),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = reconcile.NewService(f.provider, f.store, reconcile.Config{PageSize: 500}, logger)

	return f
}

func (f *fixture) expectItem(token, itemID string) *item.Info {
	info := &item.Info{ItemID: itemID, InstitutionID: "ins_1"}
	f.provider.EXPECT().GetItemInfo(gomock.Any(), token).Return(info, nil)

	return info
}

func TestService_SyncAccount_Window(t *testing.T) {
	f := newFixture(t)
	info := f.expectItem("token", "item-1")

	fetched := txs("B", "C", "D")
	f.provider.EXPECT().
		GetTransactionsPage(gomock.Any(), "token", gomock.Any()).
		Return(&reconcile.TransactionsPage{Transactions: fetched, Total: 3}, nil)
	f.store.EXPECT().GetTransactionIDs(gomock.Any(), june, []string{"acc-1"}).Return([]string{"A", "B", "C"}, nil)
	f.store.EXPECT().FetchTransactionsByID(gomock.Any(), []string{"A"}).
		Return([]*transaction.Transaction{{ID: "A", AccountID: "acc-1", Pending: true}}, nil)

	f.store.EXPECT().BeginPersist(gomock.Any(), "item-1").Return(f.tx, nil)
	gomock.InOrder(
		f.tx.EXPECT().SaveItemInfo(gomock.Any(), info).Return(nil),
		f.tx.EXPECT().SaveTransaction(gomock.Any(), fetched[2]).Return(nil),
		f.tx.EXPECT().Commit().Return(nil),
	)
	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "checking", AccessToken: "token"}, reconcile.Options{
		Mode:   reconcile.ModeWindow,
		Window: june,
	})

	require.NoError(t, res.Err)
	assert.Equal(t, reconcile.StageDone, res.Stage)
	assert.Equal(t, "checking", res.Account)
	assert.Equal(t, 1, res.Counts.New)
	assert.Equal(t, 1, res.Counts.Archived)
	assert.Equal(t, 1, res.Counts.ArchivedPending)
}

func TestService_SyncAccount_Cursor(t *testing.T) {
	f := newFixture(t)
	info := f.expectItem("token", "item-1")

	t1 := &transaction.Transaction{ID: "T1", AccountID: "acc-1"}
	t2 := &transaction.Transaction{ID: "T2", AccountID: "acc-1", Pending: true}
	t2Modified := &transaction.Transaction{ID: "T2", AccountID: "acc-1"}

	f.store.EXPECT().GetLastSyncCursor(gomock.Any(), "item-1").Return("", nil)
	f.provider.EXPECT().SyncChangesPage(gomock.Any(), "token", "").
		Return(&reconcile.ChangesPage{Added: []*transaction.Transaction{t1, t2}, NextCursor: "c1", HasMore: true}, nil)
	f.provider.EXPECT().SyncChangesPage(gomock.Any(), "token", "c1").
		Return(&reconcile.ChangesPage{Modified: []*transaction.Transaction{t2Modified}, Removed: []string{"T3"}, NextCursor: "c2"}, nil)

	// Removed ids are never archived.
	f.store.EXPECT().BeginPersist(gomock.Any(), "item-1").Return(f.tx, nil)
	gomock.InOrder(
		f.tx.EXPECT().SaveItemInfo(gomock.Any(), info).Return(nil),
		f.tx.EXPECT().SaveTransaction(gomock.Any(), t1).Return(nil),
		f.tx.EXPECT().SaveTransaction(gomock.Any(), t2Modified).Return(nil),
		f.tx.EXPECT().SaveSyncCursor(gomock.Any(), "item-1", "c2").Return(nil),
		f.tx.EXPECT().Commit().Return(nil),
	)
	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "card", AccessToken: "token"}, reconcile.Options{
		Mode: reconcile.ModeCursor,
	})

	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Counts.New)
	assert.Equal(t, 1, res.Counts.Archived)
}

func TestService_SyncAccount_CursorFailureLeavesCursor(t *testing.T) {
	f := newFixture(t)
	f.expectItem("token", "item-1")

	f.store.EXPECT().GetLastSyncCursor(gomock.Any(), "item-1").Return("c0", nil)
	f.provider.EXPECT().SyncChangesPage(gomock.Any(), "token", "c0").
		Return(&reconcile.ChangesPage{Added: txs("T1"), NextCursor: "c1", HasMore: true}, nil)
	f.provider.EXPECT().SyncChangesPage(gomock.Any(), "token", "c1").
		Return(nil, &reconcile.ProviderError{Kind: reconcile.UnknownProviderError, Code: "INTERNAL_SERVER_ERROR", Status: 500})

	// No BeginPersist expectation: nothing may be written, the cursor included.
	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "card", AccessToken: "token"}, reconcile.Options{
		Mode: reconcile.ModeCursor,
	})

	require.Error(t, res.Err)
	assert.Equal(t, reconcile.StageReconcile, res.Stage)

	perr, ok := res.ProviderError()
	require.True(t, ok)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", perr.Code)
}

func TestService_SyncAccount_CursorIdempotent(t *testing.T) {
	f := newFixture(t)
	f.expectItem("token", "item-1")

	f.store.EXPECT().GetLastSyncCursor(gomock.Any(), "item-1").Return("c2", nil)
	f.provider.EXPECT().SyncChangesPage(gomock.Any(), "token", "c2").
		Return(&reconcile.ChangesPage{NextCursor: "c2"}, nil)

	f.store.EXPECT().BeginPersist(gomock.Any(), "item-1").Return(f.tx, nil)
	f.tx.EXPECT().SaveItemInfo(gomock.Any(), gomock.Any()).Return(nil)
	f.tx.EXPECT().SaveSyncCursor(gomock.Any(), "item-1", "c2").Return(nil)
	f.tx.EXPECT().Commit().Return(nil)
	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "card", AccessToken: "token"}, reconcile.Options{
		Mode: reconcile.ModeCursor,
	})

	require.NoError(t, res.Err)
	assert.Equal(t, reconcile.Counts{}, res.Counts)
}

func TestService_SyncAccount_Balances(t *testing.T) {
	f := newFixture(t)
	f.expectItem("token", "item-1")

	bal := &item.Balance{AccountID: "acc-1", Current: decimal.NewNullDecimal(decimal.RequireFromString("120.50"))}
	f.provider.EXPECT().GetBalances(gomock.Any(), "token").Return([]*item.Balance{bal}, nil)

	f.provider.EXPECT().
		GetTransactionsPage(gomock.Any(), "token", gomock.Any()).
		Return(&reconcile.TransactionsPage{}, nil)
	f.store.EXPECT().GetTransactionIDs(gomock.Any(), june, gomock.Any()).Return(nil, nil)

	f.store.EXPECT().BeginPersist(gomock.Any(), "item-1").Return(f.tx, nil)
	f.tx.EXPECT().SaveItemInfo(gomock.Any(), gomock.Any()).Return(nil)
	f.tx.EXPECT().SaveBalance(gomock.Any(), "item-1", bal).Return(nil)
	f.tx.EXPECT().Commit().Return(nil)
	f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "checking", AccessToken: "token"}, reconcile.Options{
		Mode:     reconcile.ModeWindow,
		Window:   june,
		Balances: true,
	})

	require.NoError(t, res.Err)
	require.Len(t, res.Balances, 1)
	assert.False(t, res.Balances[0].CapturedAt.IsZero())
}

func TestService_SyncAccount_PersistFailure(t *testing.T) {
	f := newFixture(t)
	f.expectItem("token", "item-1")

	f.provider.EXPECT().
		GetTransactionsPage(gomock.Any(), "token", gomock.Any()).
		Return(&reconcile.TransactionsPage{Transactions: txs("N1"), Total: 1}, nil)
	f.store.EXPECT().GetTransactionIDs(gomock.Any(), june, gomock.Any()).Return(nil, nil)

	boom := errors.New("constraint violation")
	f.store.EXPECT().BeginPersist(gomock.Any(), "item-1").Return(f.tx, nil)
	f.tx.EXPECT().SaveItemInfo(gomock.Any(), gomock.Any()).Return(nil)
	f.tx.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).Return(boom)
	f.tx.EXPECT().Rollback().Return(nil)

	res := f.svc.SyncAccount(context.Background(), reconcile.Account{Name: "checking", AccessToken: "token"}, reconcile.Options{
		Mode:   reconcile.ModeWindow,
		Window: june,
	})

	assert.Equal(t, reconcile.StagePersist, res.Stage)
	assert.ErrorIs(t, res.Err, reconcile.ErrPersist)
	assert.ErrorIs(t, res.Err, boom)

	_, ok := res.ProviderError()
	assert.False(t, ok)
}

func TestService_SyncAll_ContinuesPastFailures(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		t.Run(fmt.Sprintf("Parallelism%d", parallelism), func(t *testing.T) {
			f := newFixture(t)

			f.provider.EXPECT().GetItemInfo(gomock.Any(), "bad").
				Return(nil, &reconcile.ProviderError{Kind: reconcile.CredentialUpdateNeeded, Code: "ITEM_LOGIN_REQUIRED", Status: 400})
			f.provider.EXPECT().GetItemInfo(gomock.Any(), "empty").
				Return(nil, &reconcile.ProviderError{Kind: reconcile.NoApplicableAccounts, Code: "NO_ACCOUNTS", Status: 400})
			f.expectItem("good", "item-good")

			f.store.EXPECT().GetLastSyncCursor(gomock.Any(), "item-good").Return("c0", nil)
			f.provider.EXPECT().SyncChangesPage(gomock.Any(), "good", "c0").
				Return(&reconcile.ChangesPage{Added: txs("T1"), NextCursor: "c1"}, nil)
			f.store.EXPECT().BeginPersist(gomock.Any(), "item-good").Return(f.tx, nil)
			f.tx.EXPECT().SaveItemInfo(gomock.Any(), gomock.Any()).Return(nil)
			f.tx.EXPECT().SaveTransaction(gomock.Any(), gomock.Any()).Return(nil)
			f.tx.EXPECT().SaveSyncCursor(gomock.Any(), "item-good", "c1").Return(nil)
			f.tx.EXPECT().Commit().Return(nil)
			f.tx.EXPECT().Rollback().Return(nil).AnyTimes()

			accounts := []reconcile.Account{
				{Name: "bad", AccessToken: "bad"},
				{Name: "empty", AccessToken: "empty"},
				{Name: "good", AccessToken: "good"},
			}

			summary, err := f.svc.SyncAll(context.Background(), accounts, reconcile.Options{
				Mode:        reconcile.ModeCursor,
				Parallelism: parallelism,
			})
			require.NoError(t, err)

			require.Len(t, summary.Results, 3)
			assert.Equal(t, 2, summary.Failed())
			assert.Equal(t, 1, summary.Totals().New)

			perr, ok := summary.Results[0].ProviderError()
			require.True(t, ok)
			assert.Equal(t, reconcile.CredentialUpdateNeeded, perr.Kind)
			assert.Equal(t, reconcile.StageItemInfo, summary.Results[0].Stage)

			perr, ok = summary.Results[1].ProviderError()
			require.True(t, ok)
			assert.Equal(t, reconcile.NoApplicableAccounts, perr.Kind)

			assert.NoError(t, summary.Results[2].Err)
			assert.Equal(t, "good", summary.Results[2].Account)
			assert.NotEqual(t, summary.RunID.String(), "00000000-0000-0000-0000-000000000000")
		})
	}
}

func TestService_SyncAll_InvalidWindow(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SyncAll(context.Background(), []reconcile.Account{{Name: "a", AccessToken: "a"}}, reconcile.Options{
		Mode:   reconcile.ModeWindow,
		Window: reconcile.Window{Start: june.End, End: june.Start},
	})
	assert.ErrorIs(t, err, reconcile.ErrInvalidWindow)
}
