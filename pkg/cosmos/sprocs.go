package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
)

// StoredProcedures operates on the stored procedure feed of one container.
type StoredProcedures struct {
	client        *clientContext
	containerLink string
}

// StoredProcedureResponse pairs a stored procedure operation result with a
// handle to the affected procedure.
type StoredProcedureResponse struct {
	ResourceResponse
	// Definition is the stored procedure definition, nil on delete.
	Definition *StoredProcedureDefinition
	// StoredProcedure is a handle to the affected procedure.
	StoredProcedure *StoredProcedure
}

// ExecuteResponse carries the value a stored procedure returned.
type ExecuteResponse struct {
	ResourceResponse
	// Result is the raw JSON value the procedure body returned.
	Result json.RawMessage
}

// Into unmarshals the procedure result into out.
func (r ExecuteResponse) Into(out any) error {
	if r.Result == nil {
		return fmt.Errorf("response carries no result")
	}
	return json.Unmarshal(r.Result, out)
}

// Create stores a new procedure. The id and body are validated locally
// before any request is issued.
func (s *StoredProcedures) Create(ctx context.Context, definition StoredProcedureDefinition) (StoredProcedureResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return StoredProcedureResponse{}, err
	}

	var stored StoredProcedureDefinition
	rr, err := s.client.create(ctx, s.containerLink, resourceTypeStoredProcedure, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return StoredProcedureResponse{}, err
	}
	return s.response(rr, &stored), nil
}

// Upsert stores the procedure, replacing any existing one with the same id.
func (s *StoredProcedures) Upsert(ctx context.Context, definition StoredProcedureDefinition) (StoredProcedureResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return StoredProcedureResponse{}, err
	}

	var stored StoredProcedureDefinition
	rr, err := s.client.create(ctx, s.containerLink, resourceTypeStoredProcedure, "upsert", definition, requestHeaders{isUpsert: true}, &stored)
	if err != nil {
		return StoredProcedureResponse{}, err
	}
	return s.response(rr, &stored), nil
}

// ReadAll returns an iterator over every stored procedure in the container.
func (s *StoredProcedures) ReadAll(opts *QueryOptions) *FeedIterator[StoredProcedureDefinition] {
	return newFeed[StoredProcedureDefinition](s.client, s.containerLink, resourceTypeStoredProcedure, nil, opts)
}

// Query returns an iterator over stored procedures matching the query.
func (s *StoredProcedures) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[StoredProcedureDefinition] {
	return newFeed[StoredProcedureDefinition](s.client, s.containerLink, resourceTypeStoredProcedure, &query, opts)
}

func (s *StoredProcedures) response(rr ResourceResponse, stored *StoredProcedureDefinition) StoredProcedureResponse {
	return StoredProcedureResponse{
		ResourceResponse: rr,
		Definition:       stored,
		StoredProcedure: &StoredProcedure{
			client: s.client,
			id:     stored.ID,
			link:   childLink(s.containerLink, resourceTypeStoredProcedure, stored.ID),
		},
	}
}

// validateScript checks a script definition before any network I/O.
func validateScript(id, body string) error {
	if err := validateResourceID(id); err != nil {
		return err
	}
	if body == "" {
		return ErrBodyRequired
	}
	return nil
}

// StoredProcedure is a handle to one stored procedure.
type StoredProcedure struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the procedure id.
func (sp *StoredProcedure) ID() string { return sp.id }

// Link returns the canonical resource link.
func (sp *StoredProcedure) Link() string { return sp.link }

// Read fetches the procedure definition.
func (sp *StoredProcedure) Read(ctx context.Context) (StoredProcedureResponse, error) {
	var stored StoredProcedureDefinition
	rr, err := sp.client.read(ctx, sp.link, resourceTypeStoredProcedure, requestHeaders{}, &stored)
	if err != nil {
		return StoredProcedureResponse{}, err
	}
	return StoredProcedureResponse{ResourceResponse: rr, Definition: &stored, StoredProcedure: sp}, nil
}

// Replace overwrites the procedure definition.
func (sp *StoredProcedure) Replace(ctx context.Context, definition StoredProcedureDefinition) (StoredProcedureResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return StoredProcedureResponse{}, err
	}

	var stored StoredProcedureDefinition
	rr, err := sp.client.replace(ctx, sp.link, resourceTypeStoredProcedure, definition, requestHeaders{}, &stored)
	if err != nil {
		return StoredProcedureResponse{}, err
	}
	return StoredProcedureResponse{ResourceResponse: rr, Definition: &stored, StoredProcedure: sp}, nil
}

// Delete removes the procedure.
func (sp *StoredProcedure) Delete(ctx context.Context) (StoredProcedureResponse, error) {
	rr, err := sp.client.deleteResource(ctx, sp.link, resourceTypeStoredProcedure, requestHeaders{})
	if err != nil {
		return StoredProcedureResponse{}, err
	}
	return StoredProcedureResponse{ResourceResponse: rr, StoredProcedure: sp}, nil
}

// Execute runs the procedure inside the given partition with the given
// argument list and returns whatever the procedure body returned.
func (sp *StoredProcedure) Execute(ctx context.Context, partitionKey PartitionKey, args ...any) (ExecuteResponse, error) {
	result, rr, err := sp.client.execute(ctx, sp.link, args, requestHeaders{partitionKey: partitionKey})
	if err != nil {
		return ExecuteResponse{}, err
	}
	return ExecuteResponse{ResourceResponse: rr, Result: result}, nil
}
