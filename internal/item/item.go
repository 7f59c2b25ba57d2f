package item

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStaleAfter is how old the last successful provider update may get
// before an item is reported as stale.
const DefaultStaleAfter = 72 * time.Hour

// Info describes one provider login ("item") and its update status.
type Info struct {
	ItemID               string
	InstitutionID        string
	ConsentExpiresAt     *time.Time
	LastFailedUpdate     *time.Time
	LastSuccessfulUpdate *time.Time
	UpdatedAt            time.Time
}

// Balance is a point-in-time balance snapshot for one account under an item.
type Balance struct {
	AccountID    string
	Name         string
	Type         string
	Subtype      string
	Mask         string
	Current      decimal.NullDecimal
	Available    decimal.NullDecimal
	Limit        decimal.NullDecimal
	CurrencyCode string
	CapturedAt   time.Time
}

type Health string

const (
	HealthOK                Health = "ok"
	HealthLastAttemptFailed Health = "last_attempt_failed"
	HealthStale             Health = "stale"
	HealthUnknown           Health = "unknown"
)

// Health reports whether the provider is keeping this item up to date.
func (i *Info) Health(now time.Time, staleAfter time.Duration) Health {
	if i.LastSuccessfulUpdate == nil {
		if i.LastFailedUpdate != nil {
			return HealthLastAttemptFailed
		}

		return HealthUnknown
	}

	if i.LastFailedUpdate != nil && i.LastFailedUpdate.After(*i.LastSuccessfulUpdate) {
		return HealthLastAttemptFailed
	}

	if i.LastSuccessfulUpdate.Before(now.Add(-staleAfter)) {
		return HealthStale
	}

	return HealthOK
}
