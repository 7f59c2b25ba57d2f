package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

func TestService_Get(t *testing.T) {
	type testCase struct {
		name      string
		id        string
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			id:   "tx-1",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), "tx-1").
					Return(&transaction.Transaction{ID: "tx-1"}, nil)
			},
		},
		{
			name: "NotFound",
			id:   "missing",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), "missing").
					Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := transaction.ListFilter{StartDate: &start}

	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), filter).
					Return([]*transaction.Transaction{{ID: "a"}, {ID: "b"}}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), filter).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{}).
		Return([]*transaction.Transaction{
			{ID: "a", Amount: decimal.RequireFromString("12.50"), CurrencyCode: "USD"},
			{ID: "b", Amount: decimal.RequireFromString("7.25"), CurrencyCode: "USD", Pending: true},
			{ID: "c", Amount: decimal.RequireFromString("-100"), CurrencyCode: "USD"},
			{ID: "d", Amount: decimal.RequireFromString("3"), CurrencyCode: "EUR"},
		}, nil)

	svc := transaction.NewService(repo)
	sum, err := svc.Summarize(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 1, sum.Pending)
	require.Contains(t, sum.Totals, "USD")
	assert.True(t, sum.Totals["USD"].Outflow.Equal(decimal.RequireFromString("19.75")))
	assert.True(t, sum.Totals["USD"].Inflow.Equal(decimal.NewFromInt(100)))
	assert.True(t, sum.Totals["EUR"].Outflow.Equal(decimal.NewFromInt(3)))
}
