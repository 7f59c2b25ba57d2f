package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

func txs(ids ...string) []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(ids))
	for i, id := range ids {
		out[i] = &transaction.Transaction{ID: id, AccountID: "acc-1"}
	}

	return out
}

func pending(tx *transaction.Transaction) *transaction.Transaction {
	tx.Pending = true
	return tx
}

func ids(txs []*transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}

	return out
}

var june = reconcile.Window{
	Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
}

func TestWindowReconciler_Reconcile(t *testing.T) {
	type testCase struct {
		name         string
		storedA      *transaction.Transaction
		wantArchPend int
	}

	tests := []testCase{
		{name: "ArchivedSettled", storedA: &transaction.Transaction{ID: "A", AccountID: "acc-1"}, wantArchPend: 0},
		{name: "ArchivedPending", storedA: pending(&transaction.Transaction{ID: "A", AccountID: "acc-1"}), wantArchPend: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider := reconcile.NewMockProvider(ctrl)
			store := reconcile.NewMockStore(ctrl)

			fetched := txs("B", "C", "D")
			fetched[0].Pending = false // B settled remotely; still the same id
			fetched[2].Pending = true

			provider.EXPECT().
				GetTransactionsPage(gomock.Any(), "token", reconcile.TransactionsPageRequest{
					Window: june,
					Offset: 0,
					Limit:  500,
				}).
				Return(&reconcile.TransactionsPage{Transactions: fetched, Total: 3}, nil)

			store.EXPECT().
				GetTransactionIDs(gomock.Any(), june, []string{"acc-1"}).
				Return([]string{"A", "B", "C"}, nil)

			store.EXPECT().
				FetchTransactionsByID(gomock.Any(), []string{"A"}).
				Return([]*transaction.Transaction{tt.storedA}, nil)

			r := reconcile.NewWindowReconciler(provider, store, reconcile.Collector{}, 0)

			got, err := r.Reconcile(context.Background(), "token", june, nil)
			require.NoError(t, err)

			assert.Equal(t, []string{"D"}, got.NewIDs)
			assert.Equal(t, []string{"A"}, got.ArchiveIDs)
			assert.Equal(t, []string{"D"}, ids(got.ToSave()))
			assert.Equal(t, reconcile.Counts{
				New:             1,
				NewPending:      1,
				Archived:        1,
				ArchivedPending: tt.wantArchPend,
				TotalFetched:    3,
				Accounts:        1,
			}, got.Counts)
		})
	}
}

func TestWindowReconciler_Paginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := reconcile.NewMockProvider(ctrl)
	store := reconcile.NewMockStore(ctrl)

	gomock.InOrder(
		provider.EXPECT().
			GetTransactionsPage(gomock.Any(), "token", gomock.Cond(func(r reconcile.TransactionsPageRequest) bool {
				return r.Offset == 0 && r.Limit == 2
			})).
			Return(&reconcile.TransactionsPage{Transactions: txs("T1", "T2"), Total: 5}, nil),
		provider.EXPECT().
			GetTransactionsPage(gomock.Any(), "token", gomock.Cond(func(r reconcile.TransactionsPageRequest) bool {
				return r.Offset == 2 && r.Limit == 2
			})).
			Return(&reconcile.TransactionsPage{Transactions: txs("T3", "T4"), Total: 5}, nil),
		provider.EXPECT().
			GetTransactionsPage(gomock.Any(), "token", gomock.Cond(func(r reconcile.TransactionsPageRequest) bool {
				return r.Offset == 4 && r.Limit == 2
			})).
			Return(&reconcile.TransactionsPage{Transactions: txs("T5"), Total: 5}, nil),
	)

	store.EXPECT().GetTransactionIDs(gomock.Any(), june, []string{"acc-1"}).Return(nil, nil)

	r := reconcile.NewWindowReconciler(provider, store, reconcile.Collector{}, 2)

	got, err := r.Reconcile(context.Background(), "token", june, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5"}, got.FetchedIDs)
	assert.Equal(t, 5, got.Counts.New)
	assert.Empty(t, got.ArchiveIDs)
}

func TestWindowReconciler_NothingFetched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := reconcile.NewMockProvider(ctrl)
	store := reconcile.NewMockStore(ctrl)

	provider.EXPECT().
		GetTransactionsPage(gomock.Any(), "token", gomock.Any()).
		Return(&reconcile.TransactionsPage{Total: 0}, nil)

	// No accounts were seen, so nothing stored can be attributed to this run.
	store.EXPECT().GetTransactionIDs(gomock.Any(), june, gomock.Len(0)).Return(nil, nil)

	got, err := reconcile.NewWindowReconciler(provider, store, reconcile.Collector{}, 0).
		Reconcile(context.Background(), "token", june, nil)
	require.NoError(t, err)

	assert.Equal(t, reconcile.Counts{}, got.Counts)
}

func TestWindowReconciler_Errors(t *testing.T) {
	t.Run("InvalidWindow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		r := reconcile.NewWindowReconciler(reconcile.NewMockProvider(ctrl), reconcile.NewMockStore(ctrl), reconcile.Collector{}, 0)

		_, err := r.Reconcile(context.Background(), "token", reconcile.Window{Start: june.End, End: june.Start}, nil)
		assert.ErrorIs(t, err, reconcile.ErrInvalidWindow)
	})

	t.Run("ProviderError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		provider := reconcile.NewMockProvider(ctrl)
		perr := &reconcile.ProviderError{Kind: reconcile.CredentialUpdateNeeded, Code: "ITEM_LOGIN_REQUIRED"}
		provider.EXPECT().GetTransactionsPage(gomock.Any(), "token", gomock.Any()).Return(nil, perr)

		r := reconcile.NewWindowReconciler(provider, reconcile.NewMockStore(ctrl), reconcile.Collector{}, 0)

		_, err := r.Reconcile(context.Background(), "token", june, nil)
		got, ok := reconcile.AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, reconcile.CredentialUpdateNeeded, got.Kind)
	})

	t.Run("StoreError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		provider := reconcile.NewMockProvider(ctrl)
		store := reconcile.NewMockStore(ctrl)
		boom := errors.New("db down")

		provider.EXPECT().
			GetTransactionsPage(gomock.Any(), "token", gomock.Any()).
			Return(&reconcile.TransactionsPage{Transactions: txs("A"), Total: 1}, nil)
		store.EXPECT().GetTransactionIDs(gomock.Any(), june, gomock.Any()).Return(nil, boom)

		_, err := reconcile.NewWindowReconciler(provider, store, reconcile.Collector{}, 0).
			Reconcile(context.Background(), "token", june, nil)
		assert.ErrorIs(t, err, boom)
	})
}
