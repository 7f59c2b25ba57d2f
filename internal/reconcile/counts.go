package reconcile

import (
	"slices"

	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// Counts summarizes one account run.
type Counts struct {
	New             int `json:"new"`
	NewPending      int `json:"new_pending"`
	Archived        int `json:"archived"`
	ArchivedPending int `json:"archived_pending"`
	TotalFetched    int `json:"total_fetched"`
	Accounts        int `json:"accounts"`
}

// Add sums two tallies. Accounts are summed as well, so the result is an
// upper bound when two runs touched the same account.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		New:             c.New + o.New,
		NewPending:      c.NewPending + o.NewPending,
		Archived:        c.Archived + o.Archived,
		ArchivedPending: c.ArchivedPending + o.ArchivedPending,
		TotalFetched:    c.TotalFetched + o.TotalFetched,
		Accounts:        c.Accounts + o.Accounts,
	}
}

// WorkingSet is the per-run map of transactions keyed by id. Later writes
// replace earlier ones; iteration follows first-insertion order.
type WorkingSet struct {
	byID  map[string]*transaction.Transaction
	order []string
}

func NewWorkingSet() *WorkingSet {
	return &WorkingSet{byID: make(map[string]*transaction.Transaction)}
}

func (w *WorkingSet) Add(txs ...*transaction.Transaction) {
	for _, tx := range txs {
		if _, ok := w.byID[tx.ID]; !ok {
			w.order = append(w.order, tx.ID)
		}

		w.byID[tx.ID] = tx
	}
}

func (w *WorkingSet) Get(id string) (*transaction.Transaction, bool) {
	tx, ok := w.byID[id]
	return tx, ok
}

func (w *WorkingSet) Len() int {
	return len(w.order)
}

func (w *WorkingSet) IDs() []string {
	return slices.Clone(w.order)
}

// Transactions returns the current value of every id, in insertion order.
func (w *WorkingSet) Transactions() []*transaction.Transaction {
	txs := make([]*transaction.Transaction, len(w.order))
	for i, id := range w.order {
		txs[i] = w.byID[id]
	}

	return txs
}

// CountPending counts ids whose transaction is known and pending.
func (w *WorkingSet) CountPending(ids []string) int {
	n := 0

	for _, id := range ids {
		if tx, ok := w.byID[id]; ok && tx.Pending {
			n++
		}
	}

	return n
}

// accountIDs returns the distinct account ids across txs, in first-seen order.
func accountIDs(txs ...[]*transaction.Transaction) []string {
	seen := make(map[string]struct{})

	var ids []string

	for _, batch := range txs {
		for _, tx := range batch {
			if _, ok := seen[tx.AccountID]; ok {
				continue
			}

			seen[tx.AccountID] = struct{}{}
			ids = append(ids, tx.AccountID)
		}
	}

	return ids
}

// difference returns the members of a not in b, in a's order.
func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}

	var out []string

	seen := make(map[string]struct{}, len(a))

	for _, id := range a {
		if _, ok := exclude[id]; ok {
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// windowCounts tallies a window diff. working must already hold the stored
// records of the archived ids so their pending flags are known.
func windowCounts(working *WorkingSet, fetched, newIDs, archiveIDs, accounts []string) Counts {
	return Counts{
		New:             len(newIDs),
		NewPending:      working.CountPending(newIDs),
		Archived:        len(archiveIDs),
		ArchivedPending: working.CountPending(archiveIDs),
		TotalFetched:    len(fetched),
		Accounts:        len(accounts),
	}
}

// cursorCounts tallies a change-stream drain. Removed entries carry no
// payload, so none of them can be counted as pending.
func cursorCounts(working *WorkingSet, set *ChangeSet) Counts {
	added := make([]string, len(set.Added))
	for i, tx := range set.Added {
		added[i] = tx.ID
	}

	return Counts{
		New:             len(set.Added),
		NewPending:      working.CountPending(added),
		Archived:        len(set.Removed),
		ArchivedPending: 0,
		TotalFetched:    len(set.Added) + len(set.Modified),
		Accounts:        len(accountIDs(set.Added, set.Modified)),
	}
}
