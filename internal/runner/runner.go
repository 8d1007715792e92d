// Package runner composes the crawl → extract → filter → deliver
// pipeline for one sync run.
package runner

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/cache"
	"github.com/anastasiapeachy/pagewatch/internal/extract"
	"github.com/anastasiapeachy/pagewatch/internal/metrics"
	"github.com/anastasiapeachy/pagewatch/internal/page"
	"github.com/anastasiapeachy/pagewatch/internal/policy"
)

// Walker yields all descendant documents of a root node.
type Walker interface {
	Descendants(ctx context.Context, rootID string) []page.Node
}

// Sender delivers the notification for one record.
type Sender interface {
	Send(ctx context.Context, rec page.Record) error
}

// CacheStore loads and persists the delivery cache.
type CacheStore interface {
	Load() *cache.Cache
	Persist(c *cache.Cache) error
}

// Config controls one sync run.
type Config struct {
	RootID string
	MinAge time.Duration
	// PersistEachSend persists the cache after every confirmed send
	// instead of once at the end, trading I/O volume for crash-safety.
	PersistEachSend bool
}

// Summary reports what a run did.
type Summary struct {
	RunID      string
	Discovered int
	Eligible   int
	Sent       int
	Failed     int
}

// Runner owns the delivery cache for the duration of a run and drives
// the pipeline sequentially: deterministic ordering, at-most-once
// delivery, forward-only cache growth.
type Runner struct {
	walker Walker
	sender Sender
	store  CacheStore
	clock  page.Clock
	cfg    Config
	logger *zap.Logger
}

// New constructs a Runner.
func New(walker Walker, sender Sender, store CacheStore, clock page.Clock, cfg Config, logger *zap.Logger) *Runner {
	if cfg.MinAge <= 0 {
		cfg.MinAge = policy.DefaultMinAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Runner{
		walker: walker,
		sender: sender,
		store:  store,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes one sync pass. The returned error is nil even when
// individual deliveries failed: failed records simply stay eligible
// for the next scheduled run. A best-effort persist happens on every
// path out of the delivery loop.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))
	summary := Summary{RunID: runID}

	notified := r.store.Load()
	logger.Info("delivery cache loaded", zap.Int("notified", notified.Len()))

	now := r.clock.Now()
	nodes := r.walker.Descendants(ctx, r.cfg.RootID)
	summary.Discovered = len(nodes)
	logger.Info("crawl finished", zap.Int("discovered", len(nodes)))

	var eligible []page.Record
	for _, node := range nodes {
		rec := extract.Record(node)
		decision := policy.Evaluate(rec, notified, now, r.cfg.MinAge)
		metrics.ObserveDecision(string(decision.Reason))
		if !decision.Eligible {
			logger.Debug("record filtered",
				zap.String("page_id", rec.ID),
				zap.String("reason", string(decision.Reason)),
			)
			continue
		}
		eligible = append(eligible, rec)
	}
	summary.Eligible = len(eligible)

	// Stable delivery order: creation time, ties broken by id.
	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
		}
		return eligible[i].ID < eligible[j].ID
	})

	for _, rec := range eligible {
		if ctx.Err() != nil {
			logger.Warn("run interrupted, persisting progress", zap.Error(ctx.Err()))
			break
		}

		if err := r.sender.Send(ctx, rec); err != nil {
			// The id stays out of the cache so the record remains
			// eligible next run.
			summary.Failed++
			metrics.ObserveNotification("failure")
			logger.Error("delivery failed",
				zap.String("page_id", rec.ID), zap.Error(err))
			continue
		}

		summary.Sent++
		metrics.ObserveNotification("success")
		notified.Record(rec.ID)
		notified.UpdatedAt = r.clock.Now()
		notified.RunID = runID
		if r.cfg.PersistEachSend {
			r.persist(notified, logger)
		}
	}

	r.persist(notified, logger)
	metrics.SetCacheSize(notified.Len())

	logger.Info("run finished",
		zap.Int("discovered", summary.Discovered),
		zap.Int("eligible", summary.Eligible),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// persist writes the cache, logging failure instead of aborting: the
// run's deliveries already happened, and losing the write only risks
// re-notification next run.
func (r *Runner) persist(c *cache.Cache, logger *zap.Logger) {
	if err := r.store.Persist(c); err != nil {
		logger.Error("cache persist failed, next run may re-notify", zap.Error(err))
	}
}
