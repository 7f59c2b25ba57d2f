package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/MrJamesThe3rd/ledgersync/internal/reconcile"
)

// progressReporter draws a single-line bar per account as pages arrive.
type progressReporter struct {
	out io.Writer
	bar progress.Model
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *progressReporter) observer(account string) reconcile.Observer {
	return reconcile.ObserverFunc(func(pr reconcile.Progress) {
		fmt.Fprintf(p.out, "\r\033[K%s", p.line(account, pr))
	})
}

func (p *progressReporter) line(account string, pr reconcile.Progress) string {
	if pr.Total < 0 {
		return fmt.Sprintf("%-20s page %d, %d changes", account, pr.Pages, pr.Items)
	}

	percent := 1.0
	if pr.Total > 0 {
		percent = min(float64(pr.Items)/float64(pr.Total), 1)
	}

	return fmt.Sprintf("%-20s %s %d/%d", account, p.bar.ViewAs(percent), pr.Items, pr.Total)
}
