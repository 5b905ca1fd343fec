package zerodb

import (
	"context"
	"fmt"
	"time"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// executePath is the NoSQL bridge endpoint. Every row operation is a
// POST carrying an operation name and its params.
const executePath = "/v1/public/zerodb/mcp/execute"

// rowIDField is the server-assigned row identifier present in every
// stored document.
const rowIDField = "row_id"

// Ensure RowStore implements the interface.
var _ driven.RowStore = (*RowStore)(nil)

// RowStore implements the row store port over the ZeroDB execute
// bridge. Row ids live inside the stored documents; Patch and Delete
// address rows through a row_id filter.
type RowStore struct {
	client *Client
}

// NewRowStore creates a row store on a shared client.
func NewRowStore(client *Client) *RowStore {
	return &RowStore{client: client}
}

// executeRequest is the bridge request envelope.
type executeRequest struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// executeResponse is the bridge response envelope.
type executeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Result  struct {
		Rows    []map[string]any `json:"rows"`
		Total   int              `json:"total"`
		HasMore bool             `json:"has_more"`
	} `json:"result"`
}

// execute runs one bridge operation.
func (s *RowStore) execute(ctx context.Context, operation string, params map[string]any) (*executeResponse, error) {
	params["project_id"] = s.client.projectID

	var resp executeResponse
	if err := s.client.post(ctx, executePath, executeRequest{
		Operation: operation,
		Params:    params,
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("zerodb: %s failed: %s", operation, resp.Error)
	}
	return &resp, nil
}

// Insert stores a document and returns the server-assigned row id.
func (s *RowStore) Insert(ctx context.Context, table string, doc map[string]any) (string, error) {
	resp, err := s.execute(ctx, "insert_rows", map[string]any{
		"table_name": table,
		"rows":       []map[string]any{doc},
	})
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	if len(resp.Result.Rows) == 0 {
		return "", fmt.Errorf("zerodb: insert into %s returned no rows", table)
	}
	rowID, _ := resp.Result.Rows[0][rowIDField].(string)
	if rowID == "" {
		return "", fmt.Errorf("zerodb: insert into %s returned no row id", table)
	}
	return rowID, nil
}

// Query returns rows matching the filter. A transient failure is
// retried once; reads are idempotent.
func (s *RowStore) Query(ctx context.Context, table string, filter driven.Filter, limit, offset int) (*driven.RowQueryResult, error) {
	params := map[string]any{
		"table_name": table,
		"filter":     map[string]any(filter),
		"limit":      limit,
		"offset":     offset,
	}

	resp, err := s.execute(ctx, "query_rows", params)
	if retryable(err) {
		logger.Debug("Retrying query on %s after transient failure: %v", table, err)
		time.Sleep(100 * time.Millisecond)
		resp, err = s.execute(ctx, "query_rows", cloneParams(params))
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	rows := make([]driven.Row, 0, len(resp.Result.Rows))
	for _, doc := range resp.Result.Rows {
		rowID, _ := doc[rowIDField].(string)
		rows = append(rows, driven.Row{ID: rowID, Document: doc})
	}

	total := resp.Result.Total
	if total == 0 {
		total = len(rows)
	}
	return &driven.RowQueryResult{
		Rows:    rows,
		Total:   total,
		HasMore: resp.Result.HasMore,
	}, nil
}

// Patch merges the update into the row addressed by row id.
func (s *RowStore) Patch(ctx context.Context, table, rowID string, update map[string]any) (*driven.Row, error) {
	resp, err := s.execute(ctx, "update_rows", map[string]any{
		"table_name": table,
		"filter":     map[string]any{rowIDField: rowID},
		"update":     update,
	})
	if err != nil {
		return nil, fmt.Errorf("patch %s/%s: %w", table, rowID, err)
	}
	if len(resp.Result.Rows) == 0 {
		return &driven.Row{ID: rowID, Document: update}, nil
	}
	return &driven.Row{ID: rowID, Document: resp.Result.Rows[0]}, nil
}

// Delete removes the row addressed by row id.
func (s *RowStore) Delete(ctx context.Context, table, rowID string) error {
	if _, err := s.execute(ctx, "delete_rows", map[string]any{
		"table_name": table,
		"filter":     map[string]any{rowIDField: rowID},
	}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, rowID, err)
	}
	return nil
}

// Ping verifies the bridge answers queries for the project.
func (s *RowStore) Ping(ctx context.Context) error {
	if _, err := s.execute(ctx, "query_rows", map[string]any{
		"table_name": "ocean_pages",
		"filter":     map[string]any{},
		"limit":      1,
		"offset":     0,
	}); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close is a no-op; the underlying client holds no connections open.
func (s *RowStore) Close() error { return nil }

func cloneParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
