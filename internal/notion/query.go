package notion

import (
	"context"
	"fmt"
)

// QueryAll runs a database query to completion, following next_cursor until
// the API reports no more results. Pages are returned in API order.
func QueryAll(ctx context.Context, q Querier, databaseID string, filter *Filter) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		res, err := q.QueryDatabase(ctx, databaseID, &QueryRequest{
			Filter:      filter,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		pages = append(pages, res.Results...)

		if !res.HasMore || res.NextCursor == nil || *res.NextCursor == "" {
			return pages, nil
		}
		cursor = *res.NextCursor
	}
}

// AnyMatch reports whether at least one page of the database matches filter.
func AnyMatch(ctx context.Context, q Querier, databaseID string, filter *Filter) (bool, error) {
	res, err := q.QueryDatabase(ctx, databaseID, &QueryRequest{Filter: filter, PageSize: 1})
	if err != nil {
		return false, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return len(res.Results) > 0, nil
}
