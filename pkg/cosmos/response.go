package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ResourceResponse carries the wire-level metadata common to every
// operation response.
type ResourceResponse struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// RequestCharge is the request cost in request units.
	RequestCharge float64
	// ActivityID correlates the operation with service-side diagnostics.
	ActivityID string
	// ETag is the entity tag of the returned resource, when present.
	ETag string
	// SessionToken is the session the operation advanced to.
	SessionToken string
}

// newResourceResponse extracts common metadata from response headers.
func newResourceResponse(status int, header http.Header) ResourceResponse {
	rr := ResourceResponse{
		StatusCode:   status,
		ActivityID:   header.Get(headerActivityID),
		ETag:         header.Get(headerETag),
		SessionToken: header.Get(headerSessionToken),
	}
	if charge := header.Get(headerRequestCharge); charge != "" {
		if v, err := strconv.ParseFloat(charge, 64); err == nil {
			rr.RequestCharge = v
		}
	}
	return rr
}

// FeedResponse is one page of a feed or query result.
type FeedResponse[T any] struct {
	ResourceResponse
	// Resources are the page contents.
	Resources []T
	// Count is the service-reported item count of the page.
	Count int
	// ContinuationToken resumes the feed after this page; empty on the
	// last page.
	ContinuationToken string
}

// FeedIterator pages through a feed or query result set.
//
// Esempio minimo:
//
//	iter := container.Items().Query(spec, nil)
//	for iter.HasMoreResults() {
//		page, err := iter.Next(ctx)
//		...
//	}
type FeedIterator[T any] struct {
	fetch        func(ctx context.Context, continuation string) (FeedResponse[T], error)
	continuation string
	started      bool
	err          error
}

// newFeedIterator builds an iterator over a page-fetch function. An initial
// continuation token resumes a previous feed.
func newFeedIterator[T any](initialContinuation string, fetch func(ctx context.Context, continuation string) (FeedResponse[T], error)) *FeedIterator[T] {
	return &FeedIterator[T]{
		fetch:        fetch,
		continuation: initialContinuation,
	}
}

// HasMoreResults reports whether Next can produce another page.
func (it *FeedIterator[T]) HasMoreResults() bool {
	if it.err != nil {
		return false
	}
	return !it.started || it.continuation != ""
}

// Next fetches the next page. Calling Next after the feed is exhausted
// returns an error.
func (it *FeedIterator[T]) Next(ctx context.Context) (FeedResponse[T], error) {
	if !it.HasMoreResults() {
		return FeedResponse[T]{}, fmt.Errorf("feed iterator has no more results")
	}

	page, err := it.fetch(ctx, it.continuation)
	if err != nil {
		it.err = err
		return FeedResponse[T]{}, err
	}

	it.started = true
	it.continuation = page.ContinuationToken
	return page, nil
}

// All drains the remaining pages and returns the concatenated resources.
func (it *FeedIterator[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for it.HasMoreResults() {
		page, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Resources...)
	}
	return out, nil
}

// feedEnvelope is the wire shape of a feed page: a count plus one array
// keyed by resource kind.
type feedEnvelope struct {
	RID   string `json:"_rid"`
	Count int    `json:"_count"`
}

// decodeFeedPage unmarshals a feed envelope body into typed resources.
func decodeFeedPage[T any](body []byte, resourceType string) ([]T, int, error) {
	key, ok := feedKeys[resourceType]
	if !ok {
		return nil, 0, fmt.Errorf("resource type %q has no feed representation", resourceType)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, fmt.Errorf("failed to decode feed envelope: %w", err)
	}

	var envelope feedEnvelope
	_ = json.Unmarshal(body, &envelope)

	var resources []T
	if arr, ok := raw[key]; ok {
		if err := json.Unmarshal(arr, &resources); err != nil {
			return nil, 0, fmt.Errorf("failed to decode %s feed: %w", key, err)
		}
	}

	count := envelope.Count
	if count == 0 {
		count = len(resources)
	}
	return resources, count, nil
}
