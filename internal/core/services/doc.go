// Package services implements the driving ports: the content
// repository (pages and blocks), the link graph, tags, and hybrid
// search, orchestrated over the RowStore and EmbeddingStore driven
// ports.
//
// Services are request-scoped and stateless between calls. The remote
// row store offers no transactions, so read-then-write sequences
// (position assignment, cycle checks) can race across concurrent
// requests; the design tolerates the resulting position duplicates via
// a deterministic ordering tie-break and keeps that risk isolated
// inside PositionManager and LinkService.
package services

// Row store tables used by the Ocean content engine.
const (
	tablePages          = "ocean_pages"
	tableBlocks         = "ocean_blocks"
	tableLinks          = "ocean_block_links"
	tableTags           = "ocean_tags"
	tableTagAssignments = "ocean_block_tags"
)

// DefaultVectorNamespace is the embedding namespace for block vectors.
const DefaultVectorNamespace = "ocean_blocks"
