package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anastasiapeachy/pagewatch/internal/cache"
	"github.com/anastasiapeachy/pagewatch/internal/page"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	minAge := 7 * 24 * time.Hour

	notified := cache.New()
	notified.Record("seen")

	tests := []struct {
		name   string
		rec    page.Record
		want   bool
		reason page.Reason
	}{
		{
			name:   "old public unseen record is eligible",
			rec:    page.Record{ID: "a", Public: true, CreatedAt: now.Add(-10 * 24 * time.Hour)},
			want:   true,
			reason: page.ReasonEligible,
		},
		{
			name:   "created exactly at the boundary is eligible",
			rec:    page.Record{ID: "b", Public: true, CreatedAt: now.Add(-minAge)},
			want:   true,
			reason: page.ReasonEligible,
		},
		{
			name:   "one millisecond younger is not",
			rec:    page.Record{ID: "c", Public: true, CreatedAt: now.Add(-minAge + time.Millisecond)},
			want:   false,
			reason: page.ReasonTooRecent,
		},
		{
			name:   "private record is filtered",
			rec:    page.Record{ID: "d", Public: false, CreatedAt: now.Add(-10 * 24 * time.Hour)},
			want:   false,
			reason: page.ReasonNotPublic,
		},
		{
			name:   "already notified record is filtered",
			rec:    page.Record{ID: "seen", Public: true, CreatedAt: now.Add(-10 * 24 * time.Hour)},
			want:   false,
			reason: page.ReasonAlreadyNotified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(tt.rec, notified, now, minAge)
			require.Equal(t, tt.want, got.Eligible)
			require.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	rec := page.Record{ID: "a", Public: true, CreatedAt: now.Add(-30 * 24 * time.Hour)}
	c := cache.New()

	first := Evaluate(rec, c, now, DefaultMinAge)
	second := Evaluate(rec, c, now, DefaultMinAge)
	require.Equal(t, first, second)
}
