package page

import (
	"context"
	"time"
)

// Store is the document-store collaborator. A single call's failure is
// recoverable: callers scope it to the affected sub-tree.
type Store interface {
	// Retrieve fetches the full node for an id, including its property bag.
	Retrieve(ctx context.Context, id string) (Node, error)
	// ListChildren returns one page of an id's children. Pagination
	// terminates when HasMore is false.
	ListChildren(ctx context.Context, id string, cursor string, pageSize int) (ChildPage, error)
}

// Messenger posts a structured message to a destination channel. It is
// assumed to attempt delivery at least once but never to retry.
type Messenger interface {
	Post(ctx context.Context, msg Message) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
