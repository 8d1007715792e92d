// Package notion adapts the Notion API client to the page.Store
// interface consumed by the crawler.
package notion

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jomei/notionapi"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// Store implements page.Store against the Notion API. Child pages and
// database rows both surface as document nodes; every other block is a
// container descended into only when it reports children.
type Store struct {
	client *notionapi.Client

	mu        sync.Mutex
	databases map[string]struct{}
}

// NewStore creates a Store authenticated with an integration token.
func NewStore(token string) (*Store, error) {
	if token == "" {
		return nil, fmt.Errorf("integration token is required")
	}
	return &Store{
		client:    notionapi.NewClient(notionapi.Token(token)),
		databases: make(map[string]struct{}),
	}, nil
}

// Retrieve fetches the full page metadata for an id.
func (s *Store) Retrieve(ctx context.Context, id string) (page.Node, error) {
	p, err := s.client.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return page.Node{}, fmt.Errorf("retrieve page %s: %w", id, err)
	}

	return page.Node{
		ID:          id,
		Kind:        page.KindDocument,
		CreatedAt:   p.CreatedTime.UTC(),
		EditedAt:    p.LastEditedTime.UTC(),
		CreatedBy:   p.CreatedBy.Name,
		PublicURL:   p.PublicURL,
		Properties:  convertProperties(p.Properties),
		HasChildren: true,
	}, nil
}

// ListChildren returns one page of an id's children. For a page or
// block id this is the block-children listing; for a previously listed
// database id it is the database query, whose rows are documents.
func (s *Store) ListChildren(ctx context.Context, id, cursor string, pageSize int) (page.ChildPage, error) {
	if s.isDatabase(id) {
		return s.listRows(ctx, id, cursor, pageSize)
	}

	resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(id), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return page.ChildPage{}, fmt.Errorf("list children of %s: %w", id, err)
	}

	listing := page.ChildPage{
		HasMore:    resp.HasMore,
		NextCursor: resp.NextCursor,
	}
	for _, block := range resp.Results {
		listing.Items = append(listing.Items, s.convertBlock(block))
	}
	return listing, nil
}

func (s *Store) listRows(ctx context.Context, id, cursor string, pageSize int) (page.ChildPage, error) {
	resp, err := s.client.Database.Query(ctx, notionapi.DatabaseID(id), &notionapi.DatabaseQueryRequest{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    pageSize,
	})
	if err != nil {
		return page.ChildPage{}, fmt.Errorf("query database %s: %w", id, err)
	}

	listing := page.ChildPage{
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}
	for _, row := range resp.Results {
		listing.Items = append(listing.Items, page.Node{
			ID:          row.ID.String(),
			Kind:        page.KindDocument,
			HasChildren: true,
		})
	}
	return listing, nil
}

func (s *Store) convertBlock(block notionapi.Block) page.Node {
	id := block.GetID().String()

	switch block.GetType() {
	case notionapi.BlockTypeChildPage:
		node := page.Node{
			ID:          id,
			Kind:        page.KindDocument,
			HasChildren: block.GetHasChildren(),
		}
		if child, ok := block.(*notionapi.ChildPageBlock); ok {
			node.Title = child.ChildPage.Title
		}
		return node
	case notionapi.BlockTypeChildDatabase:
		s.markDatabase(id)
		return page.Node{
			ID:          id,
			Kind:        page.KindContainer,
			HasChildren: true,
		}
	default:
		return page.Node{
			ID:          id,
			Kind:        page.KindContainer,
			HasChildren: block.GetHasChildren(),
		}
	}
}

func (s *Store) markDatabase(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases[id] = struct{}{}
}

func (s *Store) isDatabase(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.databases[id]
	return ok
}

// convertProperties flattens the API property bag into plain-text
// properties, sorted by name so callers see a stable order.
func convertProperties(props notionapi.Properties) []page.Property {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]page.Property, 0, len(names))
	for _, name := range names {
		out = append(out, convertProperty(name, props[name]))
	}
	return out
}

func convertProperty(name string, prop notionapi.Property) page.Property {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return page.Property{Name: name, Kind: page.PropTitle, Values: richTexts(p.Title)}
	case *notionapi.RichTextProperty:
		return page.Property{Name: name, Kind: page.PropRichText, Values: richTexts(p.RichText)}
	case *notionapi.PeopleProperty:
		values := make([]string, 0, len(p.People))
		for _, user := range p.People {
			if user.Name != "" {
				values = append(values, user.Name)
			}
		}
		return page.Property{Name: name, Kind: page.PropPeople, Values: values}
	case *notionapi.SelectProperty:
		return page.Property{Name: name, Kind: page.PropSelect, Values: optionValues(p.Select.Name)}
	case *notionapi.StatusProperty:
		return page.Property{Name: name, Kind: page.PropStatus, Values: optionValues(p.Status.Name)}
	case *notionapi.CreatedByProperty:
		return page.Property{Name: name, Kind: page.PropCreatedBy, Values: optionValues(p.CreatedBy.Name)}
	default:
		return page.Property{Name: name, Kind: page.PropOther}
	}
}

func richTexts(parts []notionapi.RichText) []string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.PlainText != "" {
			values = append(values, part.PlainText)
		}
	}
	return values
}

func optionValues(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}
