package item

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInfo_Health(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		info Info
		want Health
	}{
		{
			name: "RecentSuccess",
			info: Info{LastSuccessfulUpdate: at(time.Hour), LastFailedUpdate: at(48 * time.Hour)},
			want: HealthOK,
		},
		{
			name: "FailureAfterSuccess",
			info: Info{LastSuccessfulUpdate: at(5 * time.Hour), LastFailedUpdate: at(time.Hour)},
			want: HealthLastAttemptFailed,
		},
		{
			name: "OldSuccess",
			info: Info{LastSuccessfulUpdate: at(4 * 24 * time.Hour)},
			want: HealthStale,
		},
		{
			name: "OnlyFailures",
			info: Info{LastFailedUpdate: at(time.Hour)},
			want: HealthLastAttemptFailed,
		},
		{
			name: "NoUpdates",
			info: Info{},
			want: HealthUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Health(now, DefaultStaleAfter))
		})
	}
}

func TestService_Statuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	success := now.Add(-time.Hour)

	repo := NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any()).Return([]*Info{
		{ItemID: "item-1", LastSuccessfulUpdate: &success},
	}, nil)
	repo.EXPECT().LatestBalances(gomock.Any(), "item-1").Return([]*Balance{{AccountID: "acc-1"}}, nil)

	svc := NewService(repo, 0)
	svc.now = func() time.Time { return now }

	got, err := svc.Statuses(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, HealthOK, got[0].Health)
	assert.Len(t, got[0].Balances, 1)
	assert.Equal(t, DefaultStaleAfter, svc.StaleAfter())
}

func TestService_Statuses_BalanceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any()).Return([]*Info{{ItemID: "item-1"}}, nil)
	repo.EXPECT().LatestBalances(gomock.Any(), "item-1").Return(nil, errors.New("db down"))

	_, err := NewService(repo, time.Hour).Statuses(context.Background())
	assert.ErrorContains(t, err, "item-1")
}
