package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/ledgersync/internal/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/transaction"
)

// Stage is the step an account run reached.
type Stage string

const (
	StageItemInfo  Stage = "item_info"
	StageBalances  Stage = "balances"
	StageReconcile Stage = "reconcile"
	StagePersist   Stage = "persist"
	StageDone      Stage = "done"
)

type Config struct {
	PageSize int
	MaxPages int
}

type Options struct {
	Mode   Mode
	Window Window
	// AccountIDs limits window fetches to these provider account ids.
	AccountIDs  []string
	Balances    bool
	Parallelism int
	// Progress returns the page observer for one account. Optional.
	Progress func(account string) Observer
}

// Result is the outcome of one account run. Err holds the first failure;
// a *ProviderError in its chain means the provider refused the request.
type Result struct {
	Account  string
	Mode     Mode
	Stage    Stage
	Info     *item.Info
	Balances []*item.Balance
	Counts   Counts
	Err      error
	Duration time.Duration
}

func (r *Result) ProviderError() (*ProviderError, bool) {
	if r.Err == nil {
		return nil, false
	}

	return AsProviderError(r.Err)
}

type Summary struct {
	RunID      uuid.UUID
	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

func (s *Summary) Failed() int {
	n := 0

	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}

	return n
}

func (s *Summary) Totals() Counts {
	var c Counts
	for _, r := range s.Results {
		c = c.Add(r.Counts)
	}

	return c
}

type Service struct {
	provider Provider
	store    Store
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(provider Provider, store Store, cfg Config, logger *slog.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{provider: provider, store: store, cfg: cfg, logger: logger, now: time.Now}
}

// SyncAll runs every account and collects the per-account results. One
// account's failure never stops the others; the returned error only reports
// invalid options.
func (s *Service) SyncAll(ctx context.Context, accounts []Account, opts Options) (*Summary, error) {
	if opts.Mode == ModeWindow {
		if err := opts.Window.Validate(); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		RunID:     uuid.New(),
		Mode:      opts.Mode,
		StartedAt: s.now(),
		Results:   make([]Result, len(accounts)),
	}

	logger := s.logger.With("run_id", summary.RunID, "mode", opts.Mode)

	var g errgroup.Group
	g.SetLimit(max(opts.Parallelism, 1))

	for i, acct := range accounts {
		g.Go(func() error {
			summary.Results[i] = s.syncAccount(ctx, logger, acct, opts)
			return nil
		})
	}

	_ = g.Wait()

	summary.FinishedAt = s.now()
	logger.Info("sync run finished",
		"accounts", len(accounts),
		"failed", summary.Failed(),
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	return summary, nil
}

// SyncAccount drives one account: item info, optional balances, the selected
// reconciler, then a single persistence unit.
func (s *Service) SyncAccount(ctx context.Context, acct Account, opts Options) Result {
	return s.syncAccount(ctx, s.logger, acct, opts)
}

func (s *Service) syncAccount(ctx context.Context, logger *slog.Logger, acct Account, opts Options) Result {
	start := s.now()
	logger = logger.With("account", acct.Name)
	res := Result{Account: acct.Name, Mode: opts.Mode}

	fail := func(stage Stage, err error) Result {
		res.Stage = stage
		res.Err = err
		res.Duration = s.now().Sub(start)

		if perr, ok := AsProviderError(err); ok {
			logger.Warn("provider error", "stage", stage, "kind", perr.Kind, "error", err)
		} else {
			logger.Error("account sync failed", "stage", stage, "error", err)
		}

		return res
	}

	collector := Collector{MaxPages: s.cfg.MaxPages}
	if opts.Progress != nil {
		collector.Observer = opts.Progress(acct.Name)
	}

	logger.Debug("fetching item info")

	info, err := s.provider.GetItemInfo(ctx, acct.AccessToken)
	if err != nil {
		return fail(StageItemInfo, fmt.Errorf("fetching item info: %w", err))
	}

	res.Info = info

	snapshotter := NewBalanceSnapshotter(s.provider)
	snapshotter.now = s.now

	if opts.Balances {
		logger.Debug("fetching balances")

		res.Balances, err = snapshotter.Snapshot(ctx, acct.AccessToken)
		if err != nil {
			return fail(StageBalances, err)
		}
	}

	var (
		toSave []*transaction.Transaction
		cursor *string
	)

	switch opts.Mode {
	case ModeCursor:
		r, err := NewCursorReconciler(s.provider, s.store, collector).Reconcile(ctx, acct.AccessToken, info.ItemID)
		if err != nil {
			return fail(StageReconcile, err)
		}

		res.Counts = r.Counts
		toSave = r.ToSave()
		next := r.Cursor()
		cursor = &next

		// Removed transactions are counted but deliberately left in the store.
		logger.Debug("change stream drained",
			"added", len(r.Changes.Added),
			"modified", len(r.Changes.Modified),
			"removed", len(r.Removed()),
		)
	case ModeWindow:
		r, err := NewWindowReconciler(s.provider, s.store, collector, s.cfg.PageSize).
			Reconcile(ctx, acct.AccessToken, opts.Window, opts.AccountIDs)
		if err != nil {
			return fail(StageReconcile, err)
		}

		res.Counts = r.Counts
		toSave = r.ToSave()
	default:
		return fail(StageReconcile, fmt.Errorf("unknown sync mode %q", opts.Mode))
	}

	if err := s.persist(ctx, snapshotter, info, res.Balances, toSave, cursor); err != nil {
		return fail(StagePersist, err)
	}

	res.Stage = StageDone
	res.Duration = s.now().Sub(start)

	logger.Info("account synced",
		"new", res.Counts.New,
		"new_pending", res.Counts.NewPending,
		"archived", res.Counts.Archived,
		"archived_pending", res.Counts.ArchivedPending,
		"total_fetched", res.Counts.TotalFetched,
		"accounts", res.Counts.Accounts,
	)

	return res
}

// persist applies one run as a single unit. The cursor, when present, is
// written last and only becomes visible on commit.
func (s *Service) persist(
	ctx context.Context,
	snapshotter *BalanceSnapshotter,
	info *item.Info,
	balances []*item.Balance,
	txs []*transaction.Transaction,
	cursor *string,
) error {
	ptx, err := s.store.BeginPersist(ctx, info.ItemID)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersist, err)
	}
	defer ptx.Rollback()

	if err := ptx.SaveItemInfo(ctx, info); err != nil {
		return fmt.Errorf("%w: saving item info: %w", ErrPersist, err)
	}

	if err := snapshotter.Persist(ctx, ptx, info.ItemID, balances); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	for _, tx := range txs {
		if err := ptx.SaveTransaction(ctx, tx); err != nil {
			return fmt.Errorf("%w: saving transaction %s: %w", ErrPersist, tx.ID, err)
		}
	}

	if cursor != nil {
		if err := ptx.SaveSyncCursor(ctx, info.ItemID, *cursor); err != nil {
			return fmt.Errorf("%w: saving cursor: %w", ErrPersist, err)
		}
	}

	if err := ptx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersist, err)
	}

	return nil
}
