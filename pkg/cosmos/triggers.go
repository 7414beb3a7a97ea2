package cosmos

import (
	"context"
	"fmt"
)

// Triggers operates on the trigger feed of one container.
type Triggers struct {
	client        *clientContext
	containerLink string
}

// TriggerResponse pairs a trigger operation result with a handle to the
// affected trigger.
type TriggerResponse struct {
	ResourceResponse
	// Definition is the stored trigger definition, nil on delete.
	Definition *TriggerDefinition
	// Trigger is a handle to the affected trigger.
	Trigger *Trigger
}

// Create stores a new trigger. The id, body, type, and operation are
// validated locally before any request is issued.
func (t *Triggers) Create(ctx context.Context, definition TriggerDefinition) (TriggerResponse, error) {
	if err := validateTriggerDefinition(definition); err != nil {
		return TriggerResponse{}, err
	}

	var stored TriggerDefinition
	rr, err := t.client.create(ctx, t.containerLink, resourceTypeTrigger, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return TriggerResponse{}, err
	}
	return t.response(rr, &stored), nil
}

// Upsert stores the trigger, replacing any existing one with the same id.
func (t *Triggers) Upsert(ctx context.Context, definition TriggerDefinition) (TriggerResponse, error) {
	if err := validateTriggerDefinition(definition); err != nil {
		return TriggerResponse{}, err
	}

	var stored TriggerDefinition
	rr, err := t.client.create(ctx, t.containerLink, resourceTypeTrigger, "upsert", definition, requestHeaders{isUpsert: true}, &stored)
	if err != nil {
		return TriggerResponse{}, err
	}
	return t.response(rr, &stored), nil
}

// ReadAll returns an iterator over every trigger in the container.
func (t *Triggers) ReadAll(opts *QueryOptions) *FeedIterator[TriggerDefinition] {
	return newFeed[TriggerDefinition](t.client, t.containerLink, resourceTypeTrigger, nil, opts)
}

// Query returns an iterator over triggers matching the query.
func (t *Triggers) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[TriggerDefinition] {
	return newFeed[TriggerDefinition](t.client, t.containerLink, resourceTypeTrigger, &query, opts)
}

func (t *Triggers) response(rr ResourceResponse, stored *TriggerDefinition) TriggerResponse {
	return TriggerResponse{
		ResourceResponse: rr,
		Definition:       stored,
		Trigger: &Trigger{
			client: t.client,
			id:     stored.ID,
			link:   childLink(t.containerLink, resourceTypeTrigger, stored.ID),
		},
	}
}

func validateTriggerDefinition(definition TriggerDefinition) error {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return err
	}

	switch definition.TriggerType {
	case TriggerTypePre, TriggerTypePost:
	case "":
		return fmt.Errorf("trigger type is required")
	default:
		return fmt.Errorf("unknown trigger type %q", definition.TriggerType)
	}

	switch definition.TriggerOperation {
	case TriggerOperationAll, TriggerOperationCreate, TriggerOperationReplace, TriggerOperationDelete:
	case "":
		return fmt.Errorf("trigger operation is required")
	default:
		return fmt.Errorf("unknown trigger operation %q", definition.TriggerOperation)
	}
	return nil
}

// Trigger is a handle to one trigger.
type Trigger struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the trigger id.
func (tr *Trigger) ID() string { return tr.id }

// Link returns the canonical resource link.
func (tr *Trigger) Link() string { return tr.link }

// Read fetches the trigger definition.
func (tr *Trigger) Read(ctx context.Context) (TriggerResponse, error) {
	var stored TriggerDefinition
	rr, err := tr.client.read(ctx, tr.link, resourceTypeTrigger, requestHeaders{}, &stored)
	if err != nil {
		return TriggerResponse{}, err
	}
	return TriggerResponse{ResourceResponse: rr, Definition: &stored, Trigger: tr}, nil
}

// Replace overwrites the trigger definition.
func (tr *Trigger) Replace(ctx context.Context, definition TriggerDefinition) (TriggerResponse, error) {
	if err := validateTriggerDefinition(definition); err != nil {
		return TriggerResponse{}, err
	}

	var stored TriggerDefinition
	rr, err := tr.client.replace(ctx, tr.link, resourceTypeTrigger, definition, requestHeaders{}, &stored)
	if err != nil {
		return TriggerResponse{}, err
	}
	return TriggerResponse{ResourceResponse: rr, Definition: &stored, Trigger: tr}, nil
}

// Delete removes the trigger.
func (tr *Trigger) Delete(ctx context.Context) (TriggerResponse, error) {
	rr, err := tr.client.deleteResource(ctx, tr.link, resourceTypeTrigger, requestHeaders{})
	if err != nil {
		return TriggerResponse{}, err
	}
	return TriggerResponse{ResourceResponse: rr, Trigger: tr}, nil
}
