package cosmos

import "context"

// newFeed wires a typed iterator to the dispatch layer. A nil query reads
// the plain feed; opts may be nil for service defaults.
func newFeed[T any](c *clientContext, parentLink, resourceType string, query *SQLQuerySpec, opts *QueryOptions) *FeedIterator[T] {
	var o QueryOptions
	if opts != nil {
		o = *opts
	}

	base := requestHeaders{
		partitionKey:     o.PartitionKey,
		consistencyLevel: o.ConsistencyLevel,
		sessionToken:     o.SessionToken,
		maxItemCount:     o.MaxItemCount,
		crossPartition:   o.EnableCrossPartition,
	}

	return newFeedIterator(o.ContinuationToken, func(ctx context.Context, continuation string) (FeedResponse[T], error) {
		headers := base
		headers.continuation = continuation

		resp, err := c.feedPage(ctx, parentLink, resourceType, query, headers)
		if err != nil {
			return FeedResponse[T]{}, err
		}

		resources, count, err := decodeFeedPage[T](resp.body, resourceType)
		if err != nil {
			return FeedResponse[T]{}, err
		}

		return FeedResponse[T]{
			ResourceResponse:  newResourceResponse(resp.status, resp.header),
			Resources:         resources,
			Count:             count,
			ContinuationToken: resp.header.Get(headerContinuation),
		}, nil
	})
}
