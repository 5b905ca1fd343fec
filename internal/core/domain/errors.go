package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist or is not
	// visible to the caller's organization.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists, such as a
	// duplicate tag name within an organization or a tag assigned twice
	// to the same block.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input: a missing
	// title, an unknown block type, a bad parent reference, a move of a
	// node under its own descendant.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCircularReference indicates a link that would create a cycle
	// in the link graph.
	ErrCircularReference = errors.New("circular reference")

	// ErrDependencyUnavailable indicates the row store or the embedding
	// provider is unreachable or timed out. Reads that fail with this
	// error may be retried by the caller with backoff; writes must not
	// be retried automatically, since creates carry no idempotency key
	// and a retry risks duplicates.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
