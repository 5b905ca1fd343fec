// Package domain defines the core business entities for Ocean.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: A workspace page, nestable under other pages
//   - Block: An ordered content unit within a page
//   - Link: A directed edge between blocks, or a block and a page
//   - Tag: A tenant-scoped label with usage tracking
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
