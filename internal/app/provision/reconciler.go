// internal/app/provision/reconciler.go
package provision

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/streamify/internal/app/store/groups"
	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Reconciler is a background worker that resolves provisioning markers
// left behind by crashed group-creation attempts. A marker that has been
// stale for long enough gets its remote channel torn down (best effort;
// the channel may never have been created) and its local document
// deleted, so callers can simply retry group creation.
type Reconciler struct {
	groups     *groupstore.Store
	provider   stream.ChannelProvider
	log        *zap.Logger
	interval   time.Duration
	staleAfter time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewReconciler creates a reconciler that runs every interval and
// resolves markers older than staleAfter.
func NewReconciler(groups *groupstore.Store, provider stream.ChannelProvider, logger *zap.Logger, interval, staleAfter time.Duration) *Reconciler {
	return &Reconciler{
		groups:     groups,
		provider:   provider,
		log:        logger,
		interval:   interval,
		staleAfter: staleAfter,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background reconciliation loop.
func (r *Reconciler) Start() {
	r.wg.Add(1)
	go r.run()
	r.log.Info("provisioning reconciler started",
		zap.Duration("interval", r.interval),
		zap.Duration("stale_after", r.staleAfter))
}

// Stop signals the worker to stop and waits for it to finish.
func (r *Reconciler) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("provisioning reconciler stopped")
}

func (r *Reconciler) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Pass()
		}
	}
}

// Pass performs one reconciliation sweep. Exported so tests can drive it
// without the ticker.
func (r *Reconciler) Pass() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	stale, err := r.groups.StaleProvisioning(ctx, time.Now().UTC().Add(-r.staleAfter))
	if err != nil {
		r.log.Error("reconciler: stale marker scan failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	resolved := 0
	for _, g := range stale {
		if g.StreamChannelID != "" {
			if err := r.provider.DeleteChannel(ctx, ChannelKind, g.StreamChannelID); err != nil {
				// Leave the marker; the next pass retries the teardown.
				r.log.Warn("reconciler: channel teardown failed",
					zap.String("group_id", g.ID.Hex()),
					zap.String("channel_id", g.StreamChannelID),
					zap.Error(err))
				continue
			}
		}
		if _, err := r.groups.Delete(ctx, g.ID); err != nil {
			r.log.Warn("reconciler: marker delete failed",
				zap.String("group_id", g.ID.Hex()), zap.Error(err))
			continue
		}
		resolved++
	}

	r.log.Info("reconciler pass complete",
		zap.Int("stale", len(stale)),
		zap.Int("resolved", resolved))
}
