package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// fakeStore serves a scripted tree with configurable pagination and
// per-node failures.
type fakeStore struct {
	children map[string][]page.Node
	nodes    map[string]page.Node
	pageSize int

	failList     map[string]error
	failRetrieve map[string]error

	listCalls int
}

func (s *fakeStore) Retrieve(_ context.Context, id string) (page.Node, error) {
	if err := s.failRetrieve[id]; err != nil {
		return page.Node{}, err
	}
	node, ok := s.nodes[id]
	if !ok {
		return page.Node{}, fmt.Errorf("unknown node %s", id)
	}
	return node, nil
}

func (s *fakeStore) ListChildren(_ context.Context, id, cursor string, pageSize int) (page.ChildPage, error) {
	s.listCalls++
	if err := s.failList[id]; err != nil {
		return page.ChildPage{}, err
	}

	all := s.children[id]
	start := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "c%d", &start)
	}

	limit := pageSize
	if s.pageSize > 0 && s.pageSize < limit {
		limit = s.pageSize
	}
	end := start + limit
	if end >= len(all) {
		return page.ChildPage{Items: all[start:]}, nil
	}
	return page.ChildPage{
		Items:      all[start:end],
		HasMore:    true,
		NextCursor: fmt.Sprintf("c%d", end),
	}, nil
}

func doc(id string) page.Node {
	return page.Node{ID: id, Kind: page.KindDocument}
}

func container(id string) page.Node {
	return page.Node{ID: id, Kind: page.KindContainer, HasChildren: true}
}

func ids(nodes []page.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestDescendantsWalksDepthFirst(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {doc("a"), doc("b")},
			"a":    {doc("a1")},
		},
		nodes: map[string]page.Node{
			"a": doc("a"), "b": doc("b"), "a1": doc("a1"),
		},
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	// a's branch resolves fully before b begins
	require.Equal(t, []string{"a", "a1", "b"}, ids(got))
}

func TestDescendantsExcludesRootAndDescendsContainers(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {container("col"), doc("b")},
			"col":  {doc("nested")},
		},
		nodes: map[string]page.Node{
			"b": doc("b"), "nested": doc("nested"),
		},
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	require.Equal(t, []string{"nested", "b"}, ids(got))
}

func TestDescendantsPaginatesFully(t *testing.T) {
	t.Parallel()

	var all []page.Node
	nodes := map[string]page.Node{}
	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("p%d", i)
		all = append(all, doc(id))
		nodes[id] = doc(id)
	}
	store := &fakeStore{
		children: map[string][]page.Node{"root": all},
		nodes:    nodes,
		pageSize: 3,
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	require.Len(t, got, 7)
}

func TestDescendantsScopesFailuresToSubTree(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {doc("bad"), doc("good")},
			"good": {doc("child")},
		},
		nodes: map[string]page.Node{
			"good": doc("good"), "child": doc("child"),
		},
		failRetrieve: map[string]error{"bad": errors.New("boom")},
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	// bad's branch contributes nothing; good's branch is unaffected
	require.Equal(t, []string{"good", "child"}, ids(got))
}

func TestDescendantsListFailureKeepsSiblings(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {doc("a"), doc("b")},
		},
		nodes: map[string]page.Node{
			"a": doc("a"), "b": doc("b"),
		},
		failList: map[string]error{"a": errors.New("listing down")},
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	require.Equal(t, []string{"a", "b"}, ids(got))
}

func TestDescendantsBreaksCycles(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {doc("a")},
			"a":    {doc("b")},
			"b":    {doc("a"), doc("root")},
		},
		nodes: map[string]page.Node{
			"a": doc("a"), "b": doc("b"),
		},
	}

	c := New(store, Config{}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	require.Equal(t, []string{"a", "b"}, ids(got))
}

func TestDescendantsHonorsDepthLimit(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		children: map[string][]page.Node{
			"root": {doc("d1")},
			"d1":   {doc("d2")},
			"d2":   {doc("d3")},
		},
		nodes: map[string]page.Node{
			"d1": doc("d1"), "d2": doc("d2"), "d3": doc("d3"),
		},
	}

	c := New(store, Config{MaxDepth: 1}, zap.NewNop())
	got := c.Descendants(context.Background(), "root")

	require.Equal(t, []string{"d1", "d2"}, ids(got))
}
