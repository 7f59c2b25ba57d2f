package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListItems(ctx context.Context) ([]*item.Info, error) {
	query := `
		SELECT item_id, institution_id, consent_expires_at, last_failed_update, last_successful_update, updated_at
		FROM items
		ORDER BY item_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*item.Info

	for rows.Next() {
		var (
			info        item.Info
			institution sql.NullString
		)

		if err := rows.Scan(
			&info.ItemID, &institution, &info.ConsentExpiresAt,
			&info.LastFailedUpdate, &info.LastSuccessfulUpdate, &info.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		info.InstitutionID = institution.String
		items = append(items, &info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

// LatestBalances returns the most recent snapshot row of every account under the item.
func (s *Store) LatestBalances(ctx context.Context, itemID string) ([]*item.Balance, error) {
	query := `
		SELECT DISTINCT ON (account_id)
			account_id, name, type, subtype, mask, current, available, credit_limit, currency_code, captured_at
		FROM balances
		WHERE item_id = $1
		ORDER BY account_id, captured_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	defer rows.Close()

	var balances []*item.Balance

	for rows.Next() {
		var (
			b                                  item.Balance
			name, typ, subtype, mask, currency sql.NullString
		)

		if err := rows.Scan(
			&b.AccountID, &name, &typ, &subtype, &mask,
			&b.Current, &b.Available, &b.Limit, &currency, &b.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning balance: %w", err)
		}

		b.Name = name.String
		b.Type = typ.String
		b.Subtype = subtype.String
		b.Mask = mask.String
		b.CurrencyCode = currency.String
		balances = append(balances, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balance rows: %w", err)
	}

	return balances, nil
}
