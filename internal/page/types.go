// Package page defines core types shared across subsystems.
package page

import (
	"strings"
	"time"
)

// NodeKind distinguishes document nodes from structural containers.
type NodeKind string

// Node kinds returned by the document store.
const (
	// KindDocument is a real page: it is yielded by the crawl and may
	// itself contain further children.
	KindDocument NodeKind = "document"
	// KindContainer is a structural block (column, toggle, list item…)
	// that is descended into but never yielded.
	KindContainer NodeKind = "container"
)

// PropertyKind classifies the shape of a page property as reported by
// the store. The extractor treats these as capability hints, not as a
// strict schema.
type PropertyKind string

// Property kinds recognized by the extractor strategy chains.
const (
	PropTitle     PropertyKind = "title"
	PropPeople    PropertyKind = "people"
	PropCreatedBy PropertyKind = "created_by"
	PropRichText  PropertyKind = "rich_text"
	PropSelect    PropertyKind = "select"
	PropStatus    PropertyKind = "status"
	PropOther     PropertyKind = "other"
)

// Property is one entry of a node's property bag, flattened to plain
// text. Values holds the rendered text parts (rich text runs, people
// display names, or a single option name).
type Property struct {
	Name   string
	Kind   PropertyKind
	Values []string
}

// Node is the raw, read-only view of a single document-store entry.
// Every field except ID is advisory; missing or malformed fields must
// never fail a crawl.
type Node struct {
	ID          string
	Kind        NodeKind
	Title       string // page-level title for child-page references
	CreatedAt   time.Time
	EditedAt    time.Time
	CreatedBy   string // system-level creating actor's display name
	PublicURL   string // non-empty iff the store reports public sharing
	Properties  []Property
	HasChildren bool
}

// Property returns the first property of the given kind, or false.
func (n Node) Property(kind PropertyKind) (Property, bool) {
	for _, p := range n.Properties {
		if p.Kind == kind {
			return p, true
		}
	}
	return Property{}, false
}

// Record is the normalized, immutable per-document view derived from a
// Node. Only ID is load-bearing; the rest is best-effort.
type Record struct {
	ID        string
	Title     string
	Author    string
	CreatedAt time.Time
	EditedAt  time.Time
	Public    bool
	URL       string
}

// CanonicalURL builds the stable document-store link for an id.
func CanonicalURL(id string) string {
	return "https://www.notion.so/" + strings.ReplaceAll(id, "-", "")
}

// Reason explains an eligibility decision. Used for logging and tests,
// never persisted.
type Reason string

// Eligibility decision reasons.
const (
	ReasonEligible        Reason = "eligible"
	ReasonTooRecent       Reason = "too_recent"
	ReasonNotPublic       Reason = "not_public"
	ReasonAlreadyNotified Reason = "already_notified"
)

// Decision is the transient outcome of evaluating one record.
type Decision struct {
	Eligible bool
	Reason   Reason
}

// ChildPage is one page of a paginated child listing.
type ChildPage struct {
	Items      []Node
	HasMore    bool
	NextCursor string
}

// Message is the fixed-shape notification sent per eligible record.
type Message struct {
	Headline string
	Title    string
	URL      string
	Author   string
}
