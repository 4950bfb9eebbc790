package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"snapsort/internal/collector"
	"snapsort/internal/config"
	"snapsort/internal/history"
	"snapsort/internal/logging"
	"snapsort/internal/notifications"
	"snapsort/internal/organizer"
	"snapsort/internal/preflight"
	"snapsort/internal/staging"
	"snapsort/internal/telegram"
)

// Daemon wires the Telegram poller to the batch collector and enforces
// single-instance execution. It owns the flock lock, runs preflight checks on
// startup, and fans batch outcomes out to the history ledger and notifier.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *history.Store
	client    *telegram.Client
	collector *collector.Collector
	poller    *telegram.Poller
	notifier  notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	return NewWithClient(cfg, store, telegram.NewClient(cfg), logger)
}

// NewWithClient constructs a daemon around an existing Bot API client. Tests
// use this to point the daemon at a fake server.
func NewWithClient(cfg *config.Config, store *history.Store, client *telegram.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || client == nil {
		return nil, errors.New("daemon requires config, history store, and telegram client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	area := staging.NewArea(cfg.Paths.StagingDir)
	org := organizer.New(cfg.Paths.OutputDir, logging.NewComponentLogger(logger, "organizer"))

	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		client:    client,
		collector: collector.New(cfg, area, org, client, logging.NewComponentLogger(logger, "collector")),
		notifier:  notifications.NewService(cfg),
		lockPath:  filepath.Join(cfg.Paths.LogDir, "snapsortd.lock"),
	}
	d.lock = flock.New(d.lockPath)
	d.poller = telegram.NewPoller(client, cfg, d.handleEvent, logging.NewComponentLogger(logger, "telegram"))
	return d, nil
}

// Start acquires the daemon lock, runs preflight checks, and launches the
// poller. Telegram reachability is not checked here; the poller retries that
// on its own until the API answers.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another snapsort instance is already running")
	}

	if err := d.runPreflight(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.wg.Add(1)
	go d.runPoller(runCtx)

	d.running.Store(true)
	d.logger.Info("snapsort daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop terminates the poller, waits for it to drain, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("snapsort daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Wait blocks until the poller exits and returns its terminal error, if any.
// A context cancellation counts as a clean exit.
func (d *Daemon) Wait() error {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Running reports whether the daemon has been started and not yet stopped.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

func (d *Daemon) runPoller(ctx context.Context) {
	defer d.wg.Done()
	err := d.poller.Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
	d.logger.Error("telegram poller exited", logging.Error(err))
}

// runPreflight validates directory access and notification config before the
// poller starts. Any failure aborts startup with a combined message.
func (d *Daemon) runPreflight(ctx context.Context) error {
	results := preflight.RunAll(ctx, d.cfg, nil)

	var failures []string
	for _, r := range results {
		if r.Passed {
			d.logger.Info("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
		} else {
			d.logger.Error("preflight check failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
			)
			failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// handleEvent feeds one chat event through the collector and reacts to the
// outcome. History writes and notifications are best effort; their failures
// never disturb the batch state machine.
func (d *Daemon) handleEvent(ctx context.Context, event collector.Event) {
	outcome := d.collector.Handle(ctx, event)
	switch outcome.Kind {
	case collector.OutcomeBatchStarted:
		if err := d.notifier.NotifyBatchStarted(ctx, outcome.StartedAt); err != nil {
			d.logger.Warn("batch start notification failed", logging.Error(err))
		}
	case collector.OutcomeBatchFinalized:
		d.recordBatch(ctx, outcome, history.StatusFinalized)
		if err := d.notifier.NotifyBatchFinalized(ctx, outcome.Category, outcome.Subcategory, outcome.Moved, outcome.Failed, outcome.Destination); err != nil {
			d.logger.Warn("batch finalized notification failed", logging.Error(err))
		}
	case collector.OutcomeBatchFailed:
		d.recordBatch(ctx, outcome, history.StatusFailed)
		reason := "batch failed"
		if outcome.Err != nil {
			reason = outcome.Err.Error()
		}
		if err := d.notifier.NotifyBatchFailed(ctx, reason); err != nil {
			d.logger.Warn("batch failed notification failed", logging.Error(err))
		}
	}
}

func (d *Daemon) recordBatch(ctx context.Context, outcome collector.Outcome, status history.Status) {
	batch := &history.Batch{
		BatchID:     outcome.BatchID,
		Category:    outcome.Category,
		Subcategory: outcome.Subcategory,
		Destination: outcome.Destination,
		Staged:      outcome.StagedCount,
		Moved:       outcome.Moved,
		Failed:      outcome.Failed,
		Status:      status,
		StartedAt:   outcome.StartedAt,
	}
	if outcome.Err != nil {
		batch.ErrorMessage = outcome.Err.Error()
	}
	if err := d.store.Record(ctx, batch); err != nil {
		d.logger.Warn("failed to record batch in history",
			logging.String(logging.FieldBatchID, outcome.BatchID),
			logging.Error(err),
		)
	}
}
