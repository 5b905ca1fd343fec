// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// The Ocean core consumes exactly two external collaborators:
//
//   - RowStore: a remote NoSQL document-row store with no knowledge of
//     domain invariants. The core owns all invariant enforcement.
//   - EmbeddingStore: a remote text-embedding and vector-search
//     provider.
//
// Both are potential suspension points; implementations apply a
// per-request timeout and surface unreachability as
// domain.ErrDependencyUnavailable.
package driven
