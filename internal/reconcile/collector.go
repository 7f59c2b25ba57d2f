package reconcile

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// DefaultMaxPages bounds a single drain in case the provider keeps returning full pages.
const DefaultMaxPages = 1000

// Progress is reported after every fetched page. Total is -1 when the
// provider does not announce one.
type Progress struct {
	Pages int
	Items int
	Total int
}

type Observer interface {
	PageFetched(p Progress)
}

type ObserverFunc func(p Progress)

func (f ObserverFunc) PageFetched(p Progress) { f(p) }

// NopObserver discards progress.
var NopObserver Observer = ObserverFunc(func(Progress) {})

func observerOrNop(obs Observer) Observer {
	if obs == nil {
		return NopObserver
	}

	return obs
}

// PageFunc fetches the page starting at offset. total is the provider's
// count of items across all pages.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (items []T, total int, err error)

// Collector drains paginated listings.
type Collector struct {
	MaxPages int
	Observer Observer
}

func (c Collector) maxPages() int {
	if c.MaxPages <= 0 {
		return DefaultMaxPages
	}

	return c.MaxPages
}

// CollectPages concatenates pages until one comes back short or the reported
// total has been reached.
func CollectPages[T any](ctx context.Context, c Collector, limit int, fetch PageFunc[T]) ([]T, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid page size %d", limit)
	}

	obs := observerOrNop(c.Observer)

	var all []T

	offset := 0

	for page := 1; ; page++ {
		if page > c.maxPages() {
			return nil, fmt.Errorf("%w: more than %d pages", ErrTooManyPages, c.maxPages())
		}

		items, total, err := fetch(ctx, offset, limit)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
		obs.PageFetched(Progress{Pages: page, Items: len(all), Total: total})

		if len(items) < limit || len(all) >= total {
			return all, nil
		}

		offset += limit
	}
}

// ChangeSet is the accumulation of every page of one change-stream drain.
type ChangeSet struct {
	Added    []*transaction.Transaction
	Modified []*transaction.Transaction
	Removed  []string
	Cursor   string

	// pages keeps per-page boundaries so merges follow pagination order.
	pages []*ChangesPage
}

// ChangesFunc fetches the page of changes after cursor.
type ChangesFunc func(ctx context.Context, cursor string) (*ChangesPage, error)

// DrainChanges follows the change stream from cursor until the provider
// reports no more pages. On error nothing is returned, so the caller's
// cursor stays where it was.
func DrainChanges(ctx context.Context, c Collector, cursor string, fetch ChangesFunc) (*ChangeSet, error) {
	obs := observerOrNop(c.Observer)
	set := &ChangeSet{Cursor: cursor}

	for page := 1; ; page++ {
		if page > c.maxPages() {
			return nil, fmt.Errorf("%w: more than %d pages", ErrTooManyPages, c.maxPages())
		}

		p, err := fetch(ctx, set.Cursor)
		if err != nil {
			return nil, err
		}

		set.Added = append(set.Added, p.Added...)
		set.Modified = append(set.Modified, p.Modified...)
		set.Removed = append(set.Removed, p.Removed...)
		set.Cursor = p.NextCursor
		set.pages = append(set.pages, p)

		obs.PageFetched(Progress{
			Pages: page,
			Items: len(set.Added) + len(set.Modified) + len(set.Removed),
			Total: -1,
		})

		if !p.HasMore {
			return set, nil
		}
	}
}
