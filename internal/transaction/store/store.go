package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Columns is the select list understood by Scan.
const Columns = `
	t.transaction_id, t.account_id, t.date, t.pending, t.merchant_name, t.amount, t.currency_code,
	t.category_primary, t.category_detailed, t.archived_at, t.created_at, t.updated_at
`

// Scan reads a transaction row laid out as Columns.
func Scan(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var merchant, currency, primary, detailed sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.AccountID, &tx.Date, &tx.Pending, &merchant, &tx.Amount, &currency,
		&primary, &detailed, &tx.ArchivedAt, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.MerchantName = merchant.String
	tx.CurrencyCode = currency.String
	tx.Category = transaction.Category{Primary: primary.String, Detailed: detailed.String}

	return &tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + Columns + `
		FROM transactions t
		WHERE t.transaction_id = $1`

	tx, err := Scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + Columns + `
		FROM transactions t
		WHERE t.archived_at IS NULL`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Pending != nil {
		query += fmt.Sprintf(" AND t.pending = $%d", argIdx)

		args = append(args, *filter.Pending)
	}

	query += " ORDER BY t.date DESC, t.transaction_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := Scan(rows)
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
