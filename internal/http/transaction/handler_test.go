package transaction_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	txHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/transaction"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

func newRouter(t *testing.T, setup func(m *transaction.MockRepository)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	setup(repo)

	r := chi.NewRouter()
	r.Route("/transactions", txHandler.NewHandler(transaction.NewService(repo)).Routes)

	return r
}

func TestHandler_List(t *testing.T) {
	type testCase struct {
		name       string
		query      string
		setupMock  func(m *transaction.MockRepository)
		wantStatus int
		wantLen    int
	}

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name:  "Filtered",
			query: "?start_date=2024-06-01&account_id=acc-1&pending=true",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{
						StartDate: &start,
						AccountID: new("acc-1"),
						Pending:   new(true),
					}).
					Return([]*transaction.Transaction{{
						ID:        "tx-1",
						AccountID: "acc-1",
						Date:      start,
						Pending:   true,
						Amount:    decimal.RequireFromString("4.5"),
					}}, nil)
			},
			wantStatus: http.StatusOK,
			wantLen:    1,
		},
		{
			name:       "BadDate",
			query:      "?start_date=06/01/2024",
			setupMock:  func(m *transaction.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadPending",
			query:      "?pending=maybe",
			setupMock:  func(m *transaction.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "StoreError",
			query: "",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.setupMock)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body []map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Len(t, body, tt.wantLen)
			assert.Equal(t, "tx-1", body[0]["id"])
			assert.Equal(t, "2024-06-01", body[0]["date"])
			assert.Equal(t, "4.5", body[0]["amount"])
		})
	}
}

func TestHandler_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		router := newRouter(t, func(m *transaction.MockRepository) {
			m.EXPECT().GetTransaction(gomock.Any(), "tx-1").Return(&transaction.Transaction{ID: "tx-1"}, nil)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/tx-1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"tx-1"`)
	})

	t.Run("NotFound", func(t *testing.T) {
		router := newRouter(t, func(m *transaction.MockRepository) {
			m.EXPECT().GetTransaction(gomock.Any(), "nope").Return(nil, transaction.ErrNotFound)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Summary(t *testing.T) {
	router := newRouter(t, func(m *transaction.MockRepository) {
		m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
			{ID: "a", Amount: decimal.RequireFromString("10"), CurrencyCode: "USD"},
			{ID: "b", Amount: decimal.RequireFromString("-2.5"), CurrencyCode: "USD", Pending: true},
		}, nil)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int `json:"count"`
		Pending int `json:"pending"`
		Totals  map[string]struct {
			Outflow string `json:"outflow"`
			Inflow  string `json:"inflow"`
		} `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 1, body.Pending)
	assert.Equal(t, "10", body.Totals["USD"].Outflow)
	assert.Equal(t, "2.5", body.Totals["USD"].Inflow)
}
