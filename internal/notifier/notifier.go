// Package notifier formats and delivers one notification per eligible
// record.
package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// DefaultSendInterval is the minimum delay between consecutive sends,
// respecting destination-side rate limits. Shortening it is safe for
// correctness but may trigger external throttling, which the notifier
// does not retry or back off from.
const DefaultSendInterval = 1.0 // seconds

// Headline is the fixed first line of every notification.
const Headline = "🆕 New public page"

// Notifier sends a fixed-shape message per record through a Messenger,
// pacing consecutive sends with a rate limiter.
type Notifier struct {
	messenger page.Messenger
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// New constructs a Notifier. intervalSeconds is the minimum inter-send
// delay; values <= 0 fall back to the default.
func New(messenger page.Messenger, intervalSeconds float64, logger *zap.Logger) *Notifier {
	if intervalSeconds <= 0 {
		intervalSeconds = DefaultSendInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		messenger: messenger,
		limiter:   rate.NewLimiter(rate.Limit(1/intervalSeconds), 1),
		logger:    logger,
	}
}

// Send delivers the notification for one record. On failure the caller
// must not mark the record as notified, so it stays eligible next run.
func (n *Notifier) Send(ctx context.Context, rec page.Record) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send pacing: %w", err)
	}

	msg := page.Message{
		Headline: Headline,
		Title:    rec.Title,
		URL:      rec.URL,
		Author:   rec.Author,
	}
	if err := n.messenger.Post(ctx, msg); err != nil {
		return fmt.Errorf("post message: %w", err)
	}

	n.logger.Info("notification sent",
		zap.String("page_id", rec.ID),
		zap.String("title", rec.Title),
	)
	return nil
}
