package report

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

type fakeWalker struct {
	nodes []page.Node
}

func (w *fakeWalker) Descendants(_ context.Context, _ string) []page.Node {
	return w.nodes
}

type fakePoster struct {
	texts []string
}

func (p *fakePoster) PostText(_ context.Context, text string) error {
	p.texts = append(p.texts, text)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestRunReportsOldestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	node := func(id string, editedDaysAgo int) page.Node {
		return page.Node{
			ID:       id,
			Kind:     page.KindDocument,
			Title:    id,
			EditedAt: now.Add(-time.Duration(editedDaysAgo) * 24 * time.Hour),
		}
	}

	walker := &fakeWalker{nodes: []page.Node{
		node("recent", 30),
		node("older", 500),
		node("oldest", 900),
	}}
	poster := &fakePoster{}
	out := filepath.Join(t.TempDir(), "stale.csv")

	rep := New(walker, poster, &fakeClock{now: now}, Config{
		RootID:     "root",
		Threshold:  365 * 24 * time.Hour,
		OutputPath: out,
	}, zap.NewNop())

	stale, err := rep.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, stale, 2)
	require.Equal(t, "oldest", stale[0].ID)
	require.Equal(t, "older", stale[1].ID)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 records
	require.Equal(t, "oldest", rows[1][0])

	require.Len(t, poster.texts, 1)
	require.Contains(t, poster.texts[0], "*2* pages")
}

func TestRunEmptyReportStillPostsSummary(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	poster := &fakePoster{}
	out := filepath.Join(t.TempDir(), "stale.csv")

	rep := New(&fakeWalker{}, poster, &fakeClock{now: now}, Config{
		RootID:     "root",
		Threshold:  365 * 24 * time.Hour,
		OutputPath: out,
	}, zap.NewNop())

	stale, err := rep.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, stale)
	require.Len(t, poster.texts, 1)
	require.Contains(t, poster.texts[0], "No pages")
}
