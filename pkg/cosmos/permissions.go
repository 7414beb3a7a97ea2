package cosmos

import (
	"context"
	"fmt"
)

// Permissions operates on the permission feed of one user. Each permission
// grants the user Read or All access to a single resource and carries the
// resource token the service mints for it.
type Permissions struct {
	client   *clientContext
	userLink string
}

// PermissionResponse pairs a permission operation result with a handle to
// the affected permission.
type PermissionResponse struct {
	ResourceResponse
	// Definition is the stored permission, including the minted resource
	// token; nil on delete.
	Definition *PermissionDefinition
	// Permission is a handle to the affected permission.
	Permission *Permission
}

// Create grants a new permission. The id, mode, and resource link are
// validated locally before any request is issued.
func (p *Permissions) Create(ctx context.Context, definition PermissionDefinition) (PermissionResponse, error) {
	if err := validatePermissionDefinition(definition); err != nil {
		return PermissionResponse{}, err
	}

	var stored PermissionDefinition
	rr, err := p.client.create(ctx, p.userLink, resourceTypePermission, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return PermissionResponse{}, err
	}
	return p.response(rr, &stored), nil
}

// Upsert grants the permission, replacing any existing one with the same id.
func (p *Permissions) Upsert(ctx context.Context, definition PermissionDefinition) (PermissionResponse, error) {
	if err := validatePermissionDefinition(definition); err != nil {
		return PermissionResponse{}, err
	}

	var stored PermissionDefinition
	rr, err := p.client.create(ctx, p.userLink, resourceTypePermission, "upsert", definition, requestHeaders{isUpsert: true}, &stored)
	if err != nil {
		return PermissionResponse{}, err
	}
	return p.response(rr, &stored), nil
}

// ReadAll returns an iterator over every permission of the user.
func (p *Permissions) ReadAll(opts *QueryOptions) *FeedIterator[PermissionDefinition] {
	return newFeed[PermissionDefinition](p.client, p.userLink, resourceTypePermission, nil, opts)
}

// Query returns an iterator over permissions matching the query.
func (p *Permissions) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[PermissionDefinition] {
	return newFeed[PermissionDefinition](p.client, p.userLink, resourceTypePermission, &query, opts)
}

func (p *Permissions) response(rr ResourceResponse, stored *PermissionDefinition) PermissionResponse {
	return PermissionResponse{
		ResourceResponse: rr,
		Definition:       stored,
		Permission: &Permission{
			client: p.client,
			id:     stored.ID,
			link:   childLink(p.userLink, resourceTypePermission, stored.ID),
		},
	}
}

func validatePermissionDefinition(definition PermissionDefinition) error {
	if err := validateResourceID(definition.ID); err != nil {
		return err
	}

	switch definition.PermissionMode {
	case PermissionModeRead, PermissionModeAll:
	case "":
		return fmt.Errorf("permission mode is required")
	default:
		return fmt.Errorf("unknown permission mode %q", definition.PermissionMode)
	}

	if definition.Resource == "" {
		return fmt.Errorf("permission resource link is required")
	}
	return nil
}

// Permission is a handle to one permission.
type Permission struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the permission id.
func (pm *Permission) ID() string { return pm.id }

// Link returns the canonical resource link.
func (pm *Permission) Link() string { return pm.link }

// Read fetches the permission, including a fresh resource token.
func (pm *Permission) Read(ctx context.Context) (PermissionResponse, error) {
	var stored PermissionDefinition
	rr, err := pm.client.read(ctx, pm.link, resourceTypePermission, requestHeaders{}, &stored)
	if err != nil {
		return PermissionResponse{}, err
	}
	return PermissionResponse{ResourceResponse: rr, Definition: &stored, Permission: pm}, nil
}

// Replace overwrites the permission mode or target resource.
func (pm *Permission) Replace(ctx context.Context, definition PermissionDefinition) (PermissionResponse, error) {
	if err := validatePermissionDefinition(definition); err != nil {
		return PermissionResponse{}, err
	}

	var stored PermissionDefinition
	rr, err := pm.client.replace(ctx, pm.link, resourceTypePermission, definition, requestHeaders{}, &stored)
	if err != nil {
		return PermissionResponse{}, err
	}
	return PermissionResponse{ResourceResponse: rr, Definition: &stored, Permission: pm}, nil
}

// Delete revokes the permission.
func (pm *Permission) Delete(ctx context.Context) (PermissionResponse, error) {
	rr, err := pm.client.deleteResource(ctx, pm.link, resourceTypePermission, requestHeaders{})
	if err != nil {
		return PermissionResponse{}, err
	}
	return PermissionResponse{ResourceResponse: rr, Permission: pm}, nil
}
