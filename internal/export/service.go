package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledgersync/internal/encoding"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

var header = []string{
	"transaction_id",
	"account_id",
	"date",
	"pending",
	"merchant_name",
	"amount",
	"currency",
	"category_primary",
	"category_detailed",
}

type Options struct {
	// Charset of the output, see encoding.Charsets. Empty means UTF-8.
	Charset string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Service writes the stored ledger as CSV.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export writes every transaction matching filter to w and returns how many
// rows it wrote.
func (s *Service) Export(ctx context.Context, w io.Writer, filter transaction.ListFilter, opts Options) (int, error) {
	out, err := encoding.NewWriter(w, opts.Charset)
	if err != nil {
		return 0, err
	}

	transactions, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(out)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range transactions {
		if err := cw.Write(record(tx)); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("flushing output: %w", err)
	}

	return len(transactions), nil
}

func record(tx *transaction.Transaction) []string {
	return []string{
		tx.ID,
		tx.AccountID,
		tx.Date.Format(time.DateOnly),
		strconv.FormatBool(tx.Pending),
		tx.MerchantName,
		tx.Amount.String(),
		tx.CurrencyCode,
		tx.Category.Primary,
		tx.Category.Detailed,
	}
}

// Filename names an export of filter, e.g. transactions_20240601-20240630.csv.
func Filename(filter transaction.ListFilter, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("transactions")

	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		fmt.Fprintf(&sb, "_%s-%s", filter.StartDate.Format("20060102"), filter.EndDate.Format("20060102"))
	case filter.StartDate != nil:
		fmt.Fprintf(&sb, "_from_%s", filter.StartDate.Format("20060102"))
	case filter.EndDate != nil:
		fmt.Fprintf(&sb, "_until_%s", filter.EndDate.Format("20060102"))
	default:
		fmt.Fprintf(&sb, "_%s", now.Format("20060102"))
	}

	if filter.AccountID != nil {
		sb.WriteString("_" + sanitize(*filter.AccountID))
	}

	sb.WriteString(".csv")

	return sb.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, s)
}
