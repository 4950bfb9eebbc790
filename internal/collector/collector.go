package collector

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"snapsort/internal/config"
	"snapsort/internal/label"
	"snapsort/internal/logging"
	"snapsort/internal/organizer"
	"snapsort/internal/services"
	"snapsort/internal/staging"
	"snapsort/internal/textutil"
)

// Downloader fetches a remote attachment into a local file. Implementations
// must not leave partial files behind on error.
type Downloader interface {
	Download(ctx context.Context, fileID, dest string) error
}

// Collector owns the batch state machine. A nil current batch means the
// collector is idle; the trigger phrase opens a batch and a label message
// closes it. All state transitions go through Handle, which serializes
// concurrent callers with a mutex.
type Collector struct {
	trigger   string
	allowDocs bool
	area      *staging.Area
	organizer *organizer.Organizer
	downloads Downloader
	logger    *slog.Logger

	mu      sync.Mutex
	current *batch
}

// batch tracks one collection run from trigger to finalize. Staged paths are
// recorded in arrival order; membership lives only here, never on disk.
type batch struct {
	id        string
	startedAt time.Time
	staged    []string
}

// New builds a Collector from the configured trigger phrase and document
// policy. The trigger is normalized once so matching in Handle is a plain
// string compare.
func New(cfg *config.Config, area *staging.Area, org *organizer.Organizer, downloads Downloader, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Collector{
		trigger:   textutil.NormalizePhrase(cfg.Collector.TriggerPhrase),
		allowDocs: cfg.Collector.AllowImageDocuments,
		area:      area,
		organizer: org,
		downloads: downloads,
		logger:    logger,
	}
}

// Handle runs one event through the transition table and reports what
// happened. Checks run in priority order: the trigger phrase always wins and
// (re)opens a batch in any state, qualifying media is staged while
// collecting, any other non-empty text while collecting finalizes the batch,
// and everything else is skipped or ignored. A trigger that interrupts an
// unfinished batch abandons it in place; its staged files stay in the
// staging directory for manual review.
func (c *Collector) Handle(ctx context.Context, event Event) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = services.WithChatID(ctx, event.ChatID)
	text := strings.TrimSpace(event.Text)
	if text != "" {
		// Operator aid: the chat id shows up here so the target chat
		// restriction can be configured from a live conversation.
		logging.WithContext(ctx, c.logger).Debug("text received", logging.String("text", text))
	}

	if text != "" && textutil.NormalizePhrase(text) == c.trigger {
		return c.startBatch(ctx, event)
	}
	if c.current == nil {
		return Outcome{Kind: OutcomeIgnored}
	}

	ctx = services.WithBatchID(ctx, c.current.id)
	logger := logging.WithContext(ctx, c.logger)
	switch {
	case event.Media.Qualifies(c.allowDocs):
		return c.stageMedia(ctx, logger, event)
	case text != "":
		return c.finalize(ctx, logger, text)
	case event.Media != nil:
		logger.Info("attachment skipped",
			logging.String("kind", string(event.Media.Kind)),
			logging.String("mime", event.Media.MIME),
		)
		return Outcome{Kind: OutcomeMediaSkipped, BatchID: c.current.id, StagedCount: len(c.current.staged)}
	default:
		return Outcome{Kind: OutcomeIgnored}
	}
}

func (c *Collector) startBatch(ctx context.Context, event Event) Outcome {
	if c.current != nil {
		logging.WithContext(services.WithBatchID(ctx, c.current.id), c.logger).Warn(
			"abandoning unfinished batch; staged files remain in staging",
			logging.Int("staged", len(c.current.staged)),
		)
	}
	startedAt := event.Time
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	c.current = &batch{id: uuid.NewString(), startedAt: startedAt}
	logging.WithContext(services.WithBatchID(ctx, c.current.id), c.logger).Info(
		"batch started",
		logging.String("staging_dir", c.area.Dir()),
	)
	return Outcome{Kind: OutcomeBatchStarted, BatchID: c.current.id, StartedAt: startedAt}
}

func (c *Collector) stageMedia(ctx context.Context, logger *slog.Logger, event Event) Outcome {
	b := c.current
	if err := c.area.Ensure(); err != nil {
		logger.Warn("staging directory unavailable; attachment skipped", logging.Error(err))
		return Outcome{Kind: OutcomeMediaSkipped, BatchID: b.id, StagedCount: len(b.staged), Err: err}
	}
	dest := c.area.Allocate(event.Media.FileName, event.MessageID)
	if err := c.downloads.Download(ctx, event.Media.FileID, dest); err != nil {
		logger.Warn("download failed; attachment skipped",
			logging.String("target", dest),
			logging.Error(err),
		)
		return Outcome{Kind: OutcomeMediaSkipped, BatchID: b.id, StagedCount: len(b.staged), Err: err}
	}
	b.staged = append(b.staged, dest)
	logger.Info("photo staged",
		logging.String("path", dest),
		logging.Int("staged", len(b.staged)),
	)
	return Outcome{Kind: OutcomeMediaStaged, BatchID: b.id, StagedPath: dest, StagedCount: len(b.staged)}
}

func (c *Collector) finalize(ctx context.Context, logger *slog.Logger, text string) Outcome {
	b := c.current
	c.current = nil

	lbl := label.Parse(text)
	res, err := c.organizer.Relocate(ctx, lbl, b.startedAt, b.staged)
	if err != nil {
		logger.Error("batch failed; staged files remain in staging",
			logging.String("category", lbl.Category),
			logging.String("subcategory", lbl.Subcategory),
			logging.Error(err),
		)
		return Outcome{
			Kind:        OutcomeBatchFailed,
			BatchID:     b.id,
			Category:    lbl.Category,
			Subcategory: lbl.Subcategory,
			StagedCount: len(b.staged),
			StartedAt:   b.startedAt,
			Err:         err,
		}
	}
	return Outcome{
		Kind:        OutcomeBatchFinalized,
		BatchID:     b.id,
		Category:    lbl.Category,
		Subcategory: lbl.Subcategory,
		Destination: res.Destination,
		Moved:       res.Moved,
		Failed:      res.Failed,
		StagedCount: len(b.staged),
		StartedAt:   b.startedAt,
	}
}
