// Package report renders the outcome of a sync run for people.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

const (
	nameWidth  = 50
	errorWidth = 40
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	printer = message.NewPrinter(language.English)
)

type Options struct {
	Now        time.Time
	StaleAfter time.Duration
}

// Write prints the per-account counts, classified provider errors, balances
// when captured, and item-health warnings.
func Write(w io.Writer, s *reconcile.Summary, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if opts.StaleAfter <= 0 {
		opts.StaleAfter = item.DefaultStaleAfter
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n\n", headerStyle.Render(fmt.Sprintf(
		"Finished syncing %d Plaid accounts using %s sync", len(s.Results), modeLabel(s.Mode))))

	for _, r := range s.Results {
		b.WriteString(CountsLine(r.Account, r.Counts))
		b.WriteString("\n")

		for _, bal := range r.Balances {
			fmt.Fprintf(&b, "%*s: %s\n", nameWidth, "", BalanceLine(bal))
		}

		if perr, ok := r.ProviderError(); ok {
			writeProviderError(&b, r.Account, perr)
		} else if r.Err != nil {
			fmt.Fprintf(&b, "%*s: %s\n", nameWidth, "", errorStyle.Render(fmt.Sprintf("*** %s failed ***", r.Stage)))
			writeWrapped(&b, r.Err.Error())
		}
	}

	for _, warning := range Warnings(s.Results, opts.Now, opts.StaleAfter) {
		b.WriteString(warningStyle.Render(warning))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// CountsLine is the one-line summary of an account run.
func CountsLine(account string, c reconcile.Counts) string {
	return fmt.Sprintf("%-*s: %2d new transactions (%d pending), %2d archived transactions over %d accounts",
		nameWidth, account, c.New, c.NewPending, c.Archived, c.Accounts)
}

func BalanceLine(b *item.Balance) string {
	name := b.Name
	if b.Mask != "" {
		name += " ••" + b.Mask
	}

	line := fmt.Sprintf("%s current %s", name, FormatMoney(b.Current, b.CurrencyCode))
	if b.Available.Valid {
		line += fmt.Sprintf(", available %s", FormatMoney(b.Available, b.CurrencyCode))
	}

	return line
}

// Warnings lists the items whose last update failed or went stale.
func Warnings(results []reconcile.Result, now time.Time, staleAfter time.Duration) []string {
	var out []string

	for _, r := range results {
		if r.Info == nil {
			continue
		}

		switch r.Info.Health(now, staleAfter) {
		case item.HealthLastAttemptFailed:
			out = append(out, fmt.Sprintf("%-*s: Last attempt failed!  Last failure: %s  Last success: %s",
				nameWidth, r.Account, formatTime(r.Info.LastFailedUpdate), formatTime(r.Info.LastSuccessfulUpdate)))
		case item.HealthStale:
			out = append(out, fmt.Sprintf("%-*s: Last successful update > %s ago!  Last failure: %s  Last success: %s",
				nameWidth, r.Account, formatAge(staleAfter), formatTime(r.Info.LastFailedUpdate), formatTime(r.Info.LastSuccessfulUpdate)))
		}
	}

	return out
}

// FormatMoney renders an amount with its currency symbol. Unknown or missing
// codes fall back to a plain two-decimal number followed by the code.
func FormatMoney(amount decimal.NullDecimal, code string) string {
	if !amount.Valid {
		return "n/a"
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.TrimSpace(amount.Decimal.StringFixed(2) + " " + code)
	}

	return printer.Sprint(currency.Symbol(unit.Amount(amount.Decimal.InexactFloat64())))
}

func writeProviderError(b *strings.Builder, account string, perr *reconcile.ProviderError) {
	fmt.Fprintf(b, "%*s: %s\n", nameWidth, "", errorStyle.Render("*** Plaid Error ***"))
	writeWrapped(b, perr.Error())

	if perr.Kind == reconcile.CredentialUpdateNeeded {
		fmt.Fprintf(b, "%*s: %s\n", nameWidth, "", "*** re-authenticate with Plaid Link (update mode) ***")
		fmt.Fprintf(b, "%*s: %s\n", nameWidth, "", fmt.Sprintf("for '%s', then sync again", account))
	}
}

func writeWrapped(b *strings.Builder, text string) {
	for _, line := range strings.Split(ansi.Wordwrap(text, errorWidth, ""), "\n") {
		fmt.Fprintf(b, "%*s: %s\n", nameWidth, "", line)
	}
}

func modeLabel(m reconcile.Mode) string {
	if m == reconcile.ModeCursor {
		return "cursor-based"
	}

	return "date-range"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}

	return t.Format(time.RFC3339)
}

func formatAge(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}

		return fmt.Sprintf("%d days", days)
	}

	return d.String()
}
