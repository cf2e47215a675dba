package client

import (
	"context"

	"billino/internal/tablequery"
)

// FetchTableData runs one paginated list request: the state is encoded
// with the backend's indexed scheme and the page envelope decoded into
// T items. Errors propagate as-is; there is no retry at this level,
// and concurrent fetches for different tables do not interfere.
func FetchTableData[T any](ctx context.Context, c *Client, path string, state tablequery.TableState) (tablequery.Page[T], error) {
	url := path
	if q := tablequery.BuildBackendQuery(state); q != "" {
		url = path + "?" + q
	}

	var page tablequery.Page[T]
	if err := c.getJSON(ctx, url, &page); err != nil {
		return tablequery.Page[T]{}, err
	}
	return page, nil
}
