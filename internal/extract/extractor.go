// Package extract normalizes raw document-store nodes into records.
//
// Each semantic field (title, author, visibility) is resolved by a
// ranked chain of strategies tried in order; the first one that yields
// a value wins. Extraction is total: a node with no usable signal for
// a field gets that field's documented fallback, never an error.
package extract

import (
	"strings"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// Fallback values for fields with no usable signal.
const (
	FallbackTitle  = "Untitled"
	FallbackAuthor = "Unknown Author"
)

// strategy returns a field value and whether it applied.
type strategy func(page.Node) (string, bool)

// first runs strategies in rank order and returns the fallback when
// none applies.
func first(n page.Node, fallback string, chain ...strategy) string {
	for _, s := range chain {
		if v, ok := s(n); ok {
			return v
		}
	}
	return fallback
}

// Record derives the normalized record for a node.
func Record(n page.Node) page.Record {
	return page.Record{
		ID:        n.ID,
		Title:     Title(n),
		Author:    Author(n),
		CreatedAt: n.CreatedAt,
		EditedAt:  n.EditedAt,
		Public:    Visible(n),
		URL:       page.CanonicalURL(n.ID),
	}
}

// Title resolves a node's display title: title property, then the
// page-level title of a child-page reference, then the sentinel.
func Title(n page.Node) string {
	return first(n, FallbackTitle,
		titleProperty,
		pageLevelTitle,
	)
}

// Author resolves a best-effort author name: people property, then an
// authorship-named text property, then any free-text property, then the
// system-level creating actor, then the sentinel.
func Author(n page.Node) string {
	return first(n, FallbackAuthor,
		peopleProperty,
		authorshipProperty,
		freeTextProperty,
		createdByActor,
	)
}

// Visible reports whether the node is eligible for broadcast. An
// explicit public-sharing indicator wins; otherwise a status or select
// property whose value is "public" or "published" decides; with no
// status signal at all the node defaults to public.
func Visible(n page.Node) bool {
	if n.PublicURL != "" {
		return true
	}
	if p, ok := statusSignal(n); ok {
		v := strings.ToLower(strings.TrimSpace(firstValue(p)))
		return v == "public" || v == "published"
	}
	// Permissive default: no status signal means broadcastable.
	return true
}

func titleProperty(n page.Node) (string, bool) {
	p, ok := n.Property(page.PropTitle)
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(strings.Join(p.Values, ""))
	return v, v != ""
}

func pageLevelTitle(n page.Node) (string, bool) {
	v := strings.TrimSpace(n.Title)
	return v, v != ""
}

func peopleProperty(n page.Node) (string, bool) {
	p, ok := n.Property(page.PropPeople)
	if !ok || len(p.Values) == 0 {
		return "", false
	}
	v := strings.TrimSpace(p.Values[0])
	return v, v != ""
}

// authorshipProperty matches created-by style fields and text fields
// whose names suggest authorship ("Author", "Created By", "Writer").
func authorshipProperty(n page.Node) (string, bool) {
	if p, ok := n.Property(page.PropCreatedBy); ok {
		if v := strings.TrimSpace(firstValue(p)); v != "" {
			return v, true
		}
	}
	for _, p := range n.Properties {
		if p.Kind != page.PropRichText && p.Kind != page.PropOther {
			continue
		}
		if !suggestsAuthorship(p.Name) {
			continue
		}
		if v := strings.TrimSpace(strings.Join(p.Values, " ")); v != "" {
			return v, true
		}
	}
	return "", false
}

func freeTextProperty(n page.Node) (string, bool) {
	for _, p := range n.Properties {
		if p.Kind != page.PropRichText {
			continue
		}
		if v := strings.TrimSpace(strings.Join(p.Values, " ")); v != "" {
			return v, true
		}
	}
	return "", false
}

func createdByActor(n page.Node) (string, bool) {
	v := strings.TrimSpace(n.CreatedBy)
	return v, v != ""
}

func statusSignal(n page.Node) (page.Property, bool) {
	if p, ok := n.Property(page.PropStatus); ok {
		return p, true
	}
	return n.Property(page.PropSelect)
}

func suggestsAuthorship(name string) bool {
	name = strings.ToLower(name)
	for _, hint := range []string{"author", "created by", "writer"} {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

func firstValue(p page.Property) string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}
