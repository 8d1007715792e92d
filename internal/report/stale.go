// Package report generates the stale-page report: pages whose last
// edit is older than a configured threshold, written to CSV with a
// summary message for the destination channel.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/extract"
	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// summaryLimit caps how many pages the channel summary lists; the CSV
// always carries the full set.
const summaryLimit = 10

// Walker yields all descendant documents of a root node.
type Walker interface {
	Descendants(ctx context.Context, rootID string) []page.Node
}

// TextPoster sends a plain text message to the destination channel.
type TextPoster interface {
	PostText(ctx context.Context, text string) error
}

// Config controls one report run.
type Config struct {
	RootID     string
	Threshold  time.Duration
	OutputPath string
}

// Reporter builds the stale-page report.
type Reporter struct {
	walker Walker
	poster TextPoster
	clock  page.Clock
	cfg    Config
	logger *zap.Logger
}

// New constructs a Reporter. poster may be nil, in which case only the
// CSV is produced.
func New(walker Walker, poster TextPoster, clock page.Clock, cfg Config, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		walker: walker,
		poster: poster,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// Run crawls the tree, writes the CSV and posts the summary. Returns
// the stale records, oldest first.
func (r *Reporter) Run(ctx context.Context) ([]page.Record, error) {
	now := r.clock.Now()
	cutoff := now.Add(-r.cfg.Threshold)

	nodes := r.walker.Descendants(ctx, r.cfg.RootID)
	var stale []page.Record
	for _, node := range nodes {
		rec := extract.Record(node)
		if rec.EditedAt.Before(cutoff) {
			stale = append(stale, rec)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		if !stale[i].EditedAt.Equal(stale[j].EditedAt) {
			return stale[i].EditedAt.Before(stale[j].EditedAt)
		}
		return stale[i].ID < stale[j].ID
	})

	if err := r.writeCSV(stale); err != nil {
		return nil, err
	}
	r.logger.Info("stale report written",
		zap.String("path", r.cfg.OutputPath),
		zap.Int("scanned", len(nodes)),
		zap.Int("stale", len(stale)),
	)

	if r.poster != nil {
		if err := r.poster.PostText(ctx, r.summary(stale, now)); err != nil {
			return nil, fmt.Errorf("post summary: %w", err)
		}
	}
	return stale, nil
}

func (r *Reporter) writeCSV(stale []page.Record) error {
	f, err := os.Create(r.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "author", "last_edited", "url"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range stale {
		row := []string{rec.Title, rec.Author, rec.EditedAt.Format(time.RFC3339), rec.URL}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

func (r *Reporter) summary(stale []page.Record, now time.Time) string {
	days := int(r.cfg.Threshold.Hours() / 24)
	if len(stale) == 0 {
		return fmt.Sprintf("🎉 No pages untouched for over %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📄 Found *%d* pages not edited for over %d days.\n\n*Oldest pages:*\n", len(stale), days)
	for i, rec := range stale {
		if i == summaryLimit {
			fmt.Fprintf(&b, "… and *%d* more\n", len(stale)-summaryLimit)
			break
		}
		age := int(now.Sub(rec.EditedAt).Hours() / 24)
		fmt.Fprintf(&b, "- *%s* — last edited %s (%d days ago)\n",
			rec.Title, rec.EditedAt.Format("2006-01-02"), age)
	}
	return b.String()
}
