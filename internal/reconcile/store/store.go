package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
	txstore "github.com/MrJamesThe3rd/ledgersync/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetLastSyncCursor(ctx context.Context, itemID string) (string, error) {
	var cursor string

	err := s.db.QueryRowContext(ctx, `SELECT cursor FROM sync_cursors WHERE item_id = $1`, itemID).Scan(&cursor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("getting sync cursor: %w", err)
	}

	return cursor, nil
}

// GetTransactionIDs returns the ids stored for the given accounts within the
// window, archived rows included. No accounts means no ids.
func (s *Store) GetTransactionIDs(ctx context.Context, window reconcile.Window, accountIDs []string) ([]string, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT transaction_id
		FROM transactions
		WHERE date >= $1 AND date <= $2 AND account_id = ANY($3)
		ORDER BY date, transaction_id
	`

	rows, err := s.db.QueryContext(ctx, query, window.Start, window.End, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("listing transaction ids: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning transaction id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction ids: %w", err)
	}

	return ids, nil
}

func (s *Store) FetchTransactionsByID(ctx context.Context, ids []string) ([]*transaction.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + txstore.Columns + `
		FROM transactions t
		WHERE t.transaction_id = ANY($1)`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := txstore.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

// persistLockKey maps an item to the advisory lock that serializes its writers.
func persistLockKey(itemID string) int64 {
	h := fnv.New64a()
	h.Write([]byte("sync:"))
	h.Write([]byte(itemID))

	return int64(h.Sum64())
}

type persistTx struct {
	tx *sql.Tx
}

func (s *Store) BeginPersist(ctx context.Context, itemID string) (reconcile.PersistTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning persist tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", persistLockKey(itemID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring item lock: %w", err)
	}

	return &persistTx{tx: dbTx}, nil
}

func (p *persistTx) Commit() error { return p.tx.Commit() }

func (p *persistTx) Rollback() error {
	if err := p.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (p *persistTx) SaveItemInfo(ctx context.Context, info *item.Info) error {
	query := `
		INSERT INTO items (item_id, institution_id, consent_expires_at, last_failed_update, last_successful_update, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (item_id) DO UPDATE SET
			institution_id = EXCLUDED.institution_id,
			consent_expires_at = EXCLUDED.consent_expires_at,
			last_failed_update = EXCLUDED.last_failed_update,
			last_successful_update = EXCLUDED.last_successful_update,
			updated_at = NOW()
	`

	_, err := p.tx.ExecContext(ctx, query,
		info.ItemID,
		nullString(info.InstitutionID),
		info.ConsentExpiresAt,
		info.LastFailedUpdate,
		info.LastSuccessfulUpdate,
	)
	if err != nil {
		return fmt.Errorf("upserting item: %w", err)
	}

	return nil
}

func (p *persistTx) SaveBalance(ctx context.Context, itemID string, b *item.Balance) error {
	query := `
		INSERT INTO balances (item_id, account_id, name, type, subtype, mask, current, available, credit_limit, currency_code, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.tx.ExecContext(ctx, query,
		itemID,
		b.AccountID,
		nullString(b.Name),
		nullString(b.Type),
		nullString(b.Subtype),
		nullString(b.Mask),
		b.Current,
		b.Available,
		b.Limit,
		nullString(b.CurrencyCode),
		b.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting balance: %w", err)
	}

	return nil
}

// SaveTransaction upserts by provider id. A transaction reported again is live,
// so any earlier archive mark is cleared.
func (p *persistTx) SaveTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_id, account_id, date, pending, merchant_name, amount, currency_code,
			category_primary, category_detailed, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (transaction_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			date = EXCLUDED.date,
			pending = EXCLUDED.pending,
			merchant_name = EXCLUDED.merchant_name,
			amount = EXCLUDED.amount,
			currency_code = EXCLUDED.currency_code,
			category_primary = EXCLUDED.category_primary,
			category_detailed = EXCLUDED.category_detailed,
			archived_at = NULL,
			updated_at = NOW()
	`

	_, err := p.tx.ExecContext(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Date,
		tx.Pending,
		nullString(tx.MerchantName),
		tx.Amount,
		nullString(tx.CurrencyCode),
		nullString(tx.Category.Primary),
		nullString(tx.Category.Detailed),
	)
	if err != nil {
		return fmt.Errorf("upserting transaction %s: %w", tx.ID, err)
	}

	return nil
}

func (p *persistTx) SaveSyncCursor(ctx context.Context, itemID, cursor string) error {
	query := `
		INSERT INTO sync_cursors (item_id, cursor, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (item_id) DO UPDATE SET cursor = EXCLUDED.cursor, updated_at = NOW()
	`

	if _, err := p.tx.ExecContext(ctx, query, itemID, cursor); err != nil {
		return fmt.Errorf("saving sync cursor: %w", err)
	}

	return nil
}

// ArchiveTransactions marks rows as no longer reported by the provider. Rows
// are kept.
func (p *persistTx) ArchiveTransactions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE transactions
		SET archived_at = NOW(), updated_at = NOW()
		WHERE transaction_id = ANY($1) AND archived_at IS NULL
	`

	if _, err := p.tx.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("archiving transactions: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
