package driven

import "context"

// Filter is a key-value row filter. Every filter built by the core
// includes "organization_id"; a key with a nil value matches rows
// where the field is null or absent (used for root-level parents).
type Filter map[string]any

// Row is a stored document plus the store's own row identifier.
// Mutations address rows by this identifier, never by business key,
// so services follow a locate-and-apply pattern: query by business
// key, then patch or delete by row id.
type Row struct {
	// ID is the store-assigned row identifier.
	ID string

	// Document is the row payload.
	Document map[string]any
}

// RowQueryResult is one page of a row query.
type RowQueryResult struct {
	// Rows are the matching rows in store order.
	Rows []Row

	// Total is the number of rows matching the filter.
	Total int

	// HasMore reports whether rows beyond this page exist.
	HasMore bool
}

// RowStore provides document persistence in a remote NoSQL store.
//
// Implementations must scope nothing themselves: tenant isolation is
// the caller's responsibility and every filter it passes carries the
// organization id.
type RowStore interface {
	// Insert stores a new document and returns the row identifier.
	Insert(ctx context.Context, table string, doc map[string]any) (string, error)

	// Query returns rows matching the filter. A limit of 0 applies the
	// store default.
	Query(ctx context.Context, table string, filter Filter, limit, offset int) (*RowQueryResult, error)

	// Patch applies a partial document to the row and returns the
	// updated row.
	Patch(ctx context.Context, table, rowID string, update map[string]any) (*Row, error)

	// Delete removes a row. Deleting an unknown row id returns
	// domain.ErrNotFound.
	Delete(ctx context.Context, table, rowID string) error

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
