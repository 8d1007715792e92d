// Package policy decides which records are eligible for notification.
package policy

import (
	"time"

	"github.com/anastasiapeachy/pagewatch/internal/cache"
	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// DefaultMinAge is the grace window authors get to edit or unpublish a
// page before it is broadcast.
const DefaultMinAge = 7 * 24 * time.Hour

// Evaluate computes the eligibility decision for one record. It is pure
// and order-independent: the same inputs always yield the same outcome.
// A record is eligible iff it is at least minAge old, public, and not
// yet notified.
func Evaluate(rec page.Record, c *cache.Cache, now time.Time, minAge time.Duration) page.Decision {
	if c.Contains(rec.ID) {
		return page.Decision{Reason: page.ReasonAlreadyNotified}
	}
	if !rec.Public {
		return page.Decision{Reason: page.ReasonNotPublic}
	}
	// Boundary: a record created exactly minAge ago is eligible.
	if now.Sub(rec.CreatedAt) < minAge {
		return page.Decision{Reason: page.ReasonTooRecent}
	}
	return page.Decision{Eligible: true, Reason: page.ReasonEligible}
}
