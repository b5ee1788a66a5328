package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"tradepost/pkg/errors"
)

// countDocuments runs a server-side exact-count aggregation over the
// given query.
func countDocuments(ctx context.Context, query firestore.Query) (int64, error) {
	result, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to run count aggregation", err)
	}

	value, ok := result["total"]
	if !ok {
		return 0, errors.Internal("Count aggregation returned no result", nil)
	}

	count, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, errors.Internal("Unexpected count aggregation result type", nil)
	}

	return count.GetIntegerValue(), nil
}
