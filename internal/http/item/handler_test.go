package item_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	itemHandler "github.com/MrJamesThe3rd/ledgersync/internal/http/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/item"
)

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := item.NewMockRepository(ctrl)

	recent := time.Now().Add(-time.Hour)
	repo.EXPECT().ListItems(gomock.Any()).Return([]*item.Info{
		{ItemID: "item-1", InstitutionID: "ins_3", LastSuccessfulUpdate: &recent},
	}, nil)
	repo.EXPECT().LatestBalances(gomock.Any(), "item-1").Return([]*item.Balance{
		{AccountID: "acc-1", Current: decimal.NewNullDecimal(decimal.RequireFromString("12.5")), CurrencyCode: "USD"},
	}, nil)

	r := chi.NewRouter()
	r.Route("/items", itemHandler.NewHandler(item.NewService(repo, 0)).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		ItemID   string `json:"item_id"`
		Health   string `json:"health"`
		Balances []struct {
			AccountID string  `json:"account_id"`
			Current   *string `json:"current"`
			Limit     *string `json:"limit"`
		} `json:"balances"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	require.Len(t, body, 1)
	assert.Equal(t, "item-1", body[0].ItemID)
	assert.Equal(t, "ok", body[0].Health)
	require.Len(t, body[0].Balances, 1)
	require.NotNil(t, body[0].Balances[0].Current)
	assert.Equal(t, "12.5", *body[0].Balances[0].Current)
	assert.Nil(t, body[0].Balances[0].Limit)
}
