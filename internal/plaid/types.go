package plaid

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// Date is a calendar date sent as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}

	d.Time = t

	return nil
}

// Timestamp is an optional ISO-8601 instant. Plaid sometimes sends fewer than
// three fractional digits, which RFC3339Nano accepts.
type Timestamp struct {
	Time *time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		t.Time = nil
		return nil
	}

	parsed, err := ParseTimestamp(*s)
	if err != nil {
		return err
	}

	t.Time = &parsed

	return nil
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}

	return t.UTC(), nil
}

type itemGetResponse struct {
	Item struct {
		ItemID                string    `json:"item_id"`
		InstitutionID         *string   `json:"institution_id"`
		ConsentExpirationTime Timestamp `json:"consent_expiration_time"`
	} `json:"item"`
	Status struct {
		Transactions struct {
			LastFailedUpdate     Timestamp `json:"last_failed_update"`
			LastSuccessfulUpdate Timestamp `json:"last_successful_update"`
		} `json:"transactions"`
	} `json:"status"`
}

func (r *itemGetResponse) toInfo() *item.Info {
	info := &item.Info{
		ItemID:               r.Item.ItemID,
		ConsentExpiresAt:     r.Item.ConsentExpirationTime.Time,
		LastFailedUpdate:     r.Status.Transactions.LastFailedUpdate.Time,
		LastSuccessfulUpdate: r.Status.Transactions.LastSuccessfulUpdate.Time,
	}

	if r.Item.InstitutionID != nil {
		info.InstitutionID = *r.Item.InstitutionID
	}

	return info
}

type account struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Subtype   *string `json:"subtype"`
	Mask      *string `json:"mask"`
	Balances  struct {
		Current         decimal.NullDecimal `json:"current"`
		Available       decimal.NullDecimal `json:"available"`
		Limit           decimal.NullDecimal `json:"limit"`
		ISOCurrencyCode *string             `json:"iso_currency_code"`
	} `json:"balances"`
}

func (a *account) toBalance() *item.Balance {
	return &item.Balance{
		AccountID:    a.AccountID,
		Name:         a.Name,
		Type:         a.Type,
		Subtype:      deref(a.Subtype),
		Mask:         deref(a.Mask),
		Current:      a.Balances.Current,
		Available:    a.Balances.Available,
		Limit:        a.Balances.Limit,
		CurrencyCode: deref(a.Balances.ISOCurrencyCode),
	}
}

type balanceGetResponse struct {
	Accounts []account `json:"accounts"`
}

type plaidTransaction struct {
	TransactionID           string          `json:"transaction_id"`
	AccountID               string          `json:"account_id"`
	Date                    Date            `json:"date"`
	Pending                 bool            `json:"pending"`
	MerchantName            *string         `json:"merchant_name"`
	Name                    string          `json:"name"`
	Amount                  decimal.Decimal `json:"amount"`
	ISOCurrencyCode         *string         `json:"iso_currency_code"`
	UnofficialCurrencyCode  *string         `json:"unofficial_currency_code"`
	PersonalFinanceCategory *struct {
		Primary  string `json:"primary"`
		Detailed string `json:"detailed"`
	} `json:"personal_finance_category"`
}

func (t *plaidTransaction) toTransaction() *transaction.Transaction {
	tx := &transaction.Transaction{
		ID:           t.TransactionID,
		AccountID:    t.AccountID,
		Date:         t.Date.Time,
		Pending:      t.Pending,
		MerchantName: deref(t.MerchantName),
		Amount:       t.Amount,
		CurrencyCode: deref(t.ISOCurrencyCode),
	}

	if tx.CurrencyCode == "" {
		tx.CurrencyCode = deref(t.UnofficialCurrencyCode)
	}

	if t.PersonalFinanceCategory != nil {
		tx.Category = transaction.Category{
			Primary:  t.PersonalFinanceCategory.Primary,
			Detailed: t.PersonalFinanceCategory.Detailed,
		}
	}

	return tx
}

func toTransactions(in []plaidTransaction) []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(in))
	for i := range in {
		out[i] = in[i].toTransaction()
	}

	return out
}

type transactionsGetOptions struct {
	Count      int      `json:"count"`
	Offset     int      `json:"offset"`
	AccountIDs []string `json:"account_ids,omitempty"`
}

type transactionsGetRequest struct {
	credentials
	AccessToken string                 `json:"access_token"`
	StartDate   Date                   `json:"start_date"`
	EndDate     Date                   `json:"end_date"`
	Options     transactionsGetOptions `json:"options"`
}

type transactionsGetResponse struct {
	Transactions      []plaidTransaction `json:"transactions"`
	TotalTransactions int                `json:"total_transactions"`
}

type transactionsSyncRequest struct {
	credentials
	AccessToken string `json:"access_token"`
	// Cursor is omitted on the initial sync.
	Cursor string `json:"cursor,omitempty"`
}

type transactionsSyncResponse struct {
	Added    []plaidTransaction `json:"added"`
	Modified []plaidTransaction `json:"modified"`
	Removed  []struct {
		TransactionID string `json:"transaction_id"`
	} `json:"removed"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type accessTokenRequest struct {
	credentials
	AccessToken string `json:"access_token"`
}

type errorResponse struct {
	ErrorType      string  `json:"error_type"`
	ErrorCode      string  `json:"error_code"`
	ErrorMessage   string  `json:"error_message"`
	DisplayMessage *string `json:"display_message"`
	RequestID      string  `json:"request_id"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
