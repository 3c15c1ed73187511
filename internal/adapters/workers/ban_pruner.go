package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/ports"
)

// DefaultPruneInterval applies when the configured interval is not positive.
const DefaultPruneInterval = time.Minute

// PruneObserver receives the count removed on each pass.
type PruneObserver interface {
	RecordBannedTokensPruned(n int)
}

// BanPruner periodically drops banned-token entries whose tokens have expired.
// An expired token is rejected by the validator anyway, so the entry is dead weight.
type BanPruner struct {
	logger   *slog.Logger
	store    ports.BannedTokenPruner
	observer PruneObserver
	interval time.Duration
	nowFn    func() time.Time
}

func NewBanPruner(logger *slog.Logger, store ports.BannedTokenPruner, observer PruneObserver, interval time.Duration) *BanPruner {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultPruneInterval
	}
	return &BanPruner{
		logger:   logger,
		store:    store,
		observer: observer,
		interval: interval,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// Run prunes once immediately, then on every tick until ctx is cancelled.
func (w *BanPruner) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.PruneOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "ban prune iteration failed",
				"module", "workers.ban_pruner",
				"layer", "adapter",
				"operation", "prune_banned_tokens",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *BanPruner) PruneOnce(ctx context.Context) (int, error) {
	removed, err := w.store.PruneExpired(ctx, w.nowFn())
	if err != nil {
		return 0, err
	}
	if w.observer != nil {
		w.observer.RecordBannedTokensPruned(removed)
	}
	if removed > 0 {
		w.logger.InfoContext(ctx, "expired banned tokens pruned",
			"module", "workers.ban_pruner",
			"layer", "adapter",
			"operation", "prune_banned_tokens",
			"outcome", "success",
			"removed_count", removed,
		)
	}
	return removed, nil
}
