package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Items operates on the item feed of one container.
type Items struct {
	client        *clientContext
	containerLink string
}

// ItemResponse pairs an item operation result with the stored body and a
// handle to the affected item.
type ItemResponse struct {
	ResourceResponse
	// Raw is the stored item body as returned by the service; nil on delete.
	Raw json.RawMessage
	// Item is a handle to the affected item.
	Item *Item
}

// Into unmarshals the stored item body into out.
func (r ItemResponse) Into(out any) error {
	if r.Raw == nil {
		return fmt.Errorf("response carries no item body")
	}
	return json.Unmarshal(r.Raw, out)
}

// Create stores a new item. When the body has no id field one is generated,
// matching the service SDK convention; the stored body in the response
// carries the effective id.
func (i *Items) Create(ctx context.Context, partitionKey PartitionKey, item any) (ItemResponse, error) {
	return i.write(ctx, partitionKey, item, false)
}

// Upsert stores the item, replacing any existing item with the same id in
// the same partition.
func (i *Items) Upsert(ctx context.Context, partitionKey PartitionKey, item any) (ItemResponse, error) {
	return i.write(ctx, partitionKey, item, true)
}

func (i *Items) write(ctx context.Context, partitionKey PartitionKey, item any, upsert bool) (ItemResponse, error) {
	body, id, err := prepareItemBody(item)
	if err != nil {
		return ItemResponse{}, err
	}

	operation := "create"
	if upsert {
		operation = "upsert"
	}

	resp, err := i.client.do(ctx, requestSpec{
		verb:         http.MethodPost,
		path:         feedPath(i.containerLink, resourceTypeDocument),
		resourceType: resourceTypeDocument,
		resourceLink: i.containerLink,
		operation:    operation,
		body:         body,
		headers: requestHeaders{
			partitionKey: partitionKey,
			isUpsert:     upsert,
		},
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return i.itemResponse(resp, id, partitionKey)
}

// ReadAll returns an iterator over every item in the container.
func (i *Items) ReadAll(opts *QueryOptions) *FeedIterator[json.RawMessage] {
	return newFeed[json.RawMessage](i.client, i.containerLink, resourceTypeDocument, nil, opts)
}

// Query returns an iterator over items matching the query. Queries without
// a partition key require EnableCrossPartition.
func (i *Items) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[json.RawMessage] {
	return newFeed[json.RawMessage](i.client, i.containerLink, resourceTypeDocument, &query, opts)
}

func (i *Items) itemResponse(resp *responseData, fallbackID string, partitionKey PartitionKey) (ItemResponse, error) {
	rr := newResourceResponse(resp.status, resp.header)

	id := fallbackID
	var stored struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.body, &stored); err == nil && stored.ID != "" {
		id = stored.ID
	}

	return ItemResponse{
		ResourceResponse: rr,
		Raw:              json.RawMessage(resp.body),
		Item: &Item{
			client:       i.client,
			id:           id,
			link:         childLink(i.containerLink, resourceTypeDocument, id),
			partitionKey: partitionKey,
		},
	}, nil
}

// prepareItemBody marshals the item and guarantees an id field, generating
// one when absent. It returns the wire body and the effective id.
func prepareItemBody(item any) ([]byte, string, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal item: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, "", fmt.Errorf("item body must be a JSON object: %w", err)
	}

	if idRaw, ok := fields["id"]; ok {
		var id string
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return nil, "", fmt.Errorf("item id must be a string: %w", err)
		}
		if err := validateResourceID(id); err != nil {
			return nil, "", err
		}
		return raw, id, nil
	}

	id := uuid.New().String()
	idRaw, _ := json.Marshal(id)
	fields["id"] = idRaw

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal item: %w", err)
	}
	return body, id, nil
}

// prepareReplacementBody marshals a replacement body for an existing item.
// A missing id field is filled in with the handle's id; a present one must
// be a valid resource id. No id is ever generated here.
func prepareReplacementBody(item any, id string) ([]byte, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("item body must be a JSON object: %w", err)
	}

	if idRaw, ok := fields["id"]; ok {
		var bodyID string
		if err := json.Unmarshal(idRaw, &bodyID); err != nil {
			return nil, fmt.Errorf("item id must be a string: %w", err)
		}
		if err := validateResourceID(bodyID); err != nil {
			return nil, err
		}
		return raw, nil
	}

	idRaw, _ := json.Marshal(id)
	fields["id"] = idRaw

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return body, nil
}

// Item is a handle to one item, addressed by id and partition key.
type Item struct {
	client       *clientContext
	id           string
	link         string
	partitionKey PartitionKey
}

// ID returns the item id.
func (it *Item) ID() string { return it.id }

// Link returns the canonical resource link.
func (it *Item) Link() string { return it.link }

// Read fetches the item body.
func (it *Item) Read(ctx context.Context, opts *ItemOptions) (ItemResponse, error) {
	headers := it.headers(opts)

	resp, err := it.client.do(ctx, requestSpec{
		verb:         http.MethodGet,
		path:         "/" + it.link,
		resourceType: resourceTypeDocument,
		resourceLink: it.link,
		operation:    "read",
		headers:      headers,
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return ItemResponse{
		ResourceResponse: newResourceResponse(resp.status, resp.header),
		Raw:              json.RawMessage(resp.body),
		Item:             it,
	}, nil
}

// Replace overwrites the item body. Set IfMatchETag in opts for optimistic
// concurrency.
func (it *Item) Replace(ctx context.Context, item any, opts *ItemOptions) (ItemResponse, error) {
	body, err := prepareReplacementBody(item, it.id)
	if err != nil {
		return ItemResponse{}, err
	}

	resp, err := it.client.do(ctx, requestSpec{
		verb:         http.MethodPut,
		path:         "/" + it.link,
		resourceType: resourceTypeDocument,
		resourceLink: it.link,
		operation:    "replace",
		body:         body,
		headers:      it.headers(opts),
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return ItemResponse{
		ResourceResponse: newResourceResponse(resp.status, resp.header),
		Raw:              json.RawMessage(resp.body),
		Item:             it,
	}, nil
}

// Delete removes the item.
func (it *Item) Delete(ctx context.Context, opts *ItemOptions) (ItemResponse, error) {
	rr, err := it.client.deleteResource(ctx, it.link, resourceTypeDocument, it.headers(opts))
	if err != nil {
		return ItemResponse{}, err
	}
	return ItemResponse{ResourceResponse: rr, Item: it}, nil
}

func (it *Item) headers(opts *ItemOptions) requestHeaders {
	headers := requestHeaders{partitionKey: it.partitionKey}
	if opts != nil {
		headers.ifMatch = opts.IfMatchETag
		headers.consistencyLevel = opts.ConsistencyLevel
		headers.sessionToken = opts.SessionToken
	}
	return headers
}
