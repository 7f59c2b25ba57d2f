package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Category is the provider's personal finance classification. It is stored as-is.
type Category struct {
	Primary  string
	Detailed string
}

// Transaction is a provider transaction as observed in the most recent fetch.
// ID is the provider-issued transaction id.
type Transaction struct {
	ID           string
	AccountID    string
	Date         time.Time
	Pending      bool
	MerchantName string
	Amount       decimal.Decimal
	CurrencyCode string
	Category     Category
	ArchivedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// ListFilter narrows a listing of stored transactions. Nil fields are ignored.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID *string
	Pending   *bool
}
