package cosmos

import (
	"context"
	"fmt"
)

// Containers operates on the container feed of one database.
type Containers struct {
	client       *clientContext
	databaseLink string
}

// ContainerResponse pairs a container operation result with a handle to the
// affected container.
type ContainerResponse struct {
	ResourceResponse
	// Definition is the stored container definition, nil on delete.
	Definition *ContainerDefinition
	// Container is a handle to the affected container.
	Container *Container
}

// Create creates a new container. The id and, when present, the partition
// key definition are validated locally before any request is issued.
func (c *Containers) Create(ctx context.Context, definition ContainerDefinition) (ContainerResponse, error) {
	if err := validateContainerDefinition(definition); err != nil {
		return ContainerResponse{}, err
	}

	var stored ContainerDefinition
	rr, err := c.client.create(ctx, c.databaseLink, resourceTypeContainer, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return ContainerResponse{}, err
	}
	return c.response(rr, &stored), nil
}

// CreateIfNotExists creates the container, or reads it when the id already
// exists.
func (c *Containers) CreateIfNotExists(ctx context.Context, definition ContainerDefinition) (ContainerResponse, error) {
	resp, err := c.Create(ctx, definition)
	if err == nil || !IsConflict(err) {
		return resp, err
	}
	return c.container(definition.ID).Read(ctx)
}

// ReadAll returns an iterator over every container in the database.
func (c *Containers) ReadAll(opts *QueryOptions) *FeedIterator[ContainerDefinition] {
	return newFeed[ContainerDefinition](c.client, c.databaseLink, resourceTypeContainer, nil, opts)
}

// Query returns an iterator over containers matching the query.
func (c *Containers) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[ContainerDefinition] {
	return newFeed[ContainerDefinition](c.client, c.databaseLink, resourceTypeContainer, &query, opts)
}

func (c *Containers) container(id string) *Container {
	return &Container{
		client: c.client,
		id:     id,
		link:   childLink(c.databaseLink, resourceTypeContainer, id),
	}
}

func (c *Containers) response(rr ResourceResponse, stored *ContainerDefinition) ContainerResponse {
	return ContainerResponse{
		ResourceResponse: rr,
		Definition:       stored,
		Container:        c.container(stored.ID),
	}
}

func validateContainerDefinition(definition ContainerDefinition) error {
	if err := validateResourceID(definition.ID); err != nil {
		return err
	}
	if pk := definition.PartitionKey; pk != nil {
		if len(pk.Paths) == 0 {
			return fmt.Errorf("partition key definition requires at least one path")
		}
		for _, path := range pk.Paths {
			if len(path) == 0 || path[0] != '/' {
				return fmt.Errorf("partition key path %q must start with '/'", path)
			}
		}
	}
	return nil
}

// Container is a handle to one container.
type Container struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the container id.
func (c *Container) ID() string { return c.id }

// Link returns the canonical resource link, e.g. "dbs/tasks/colls/items".
func (c *Container) Link() string { return c.link }

// Read fetches the container definition.
func (c *Container) Read(ctx context.Context) (ContainerResponse, error) {
	var stored ContainerDefinition
	rr, err := c.client.read(ctx, c.link, resourceTypeContainer, requestHeaders{}, &stored)
	if err != nil {
		return ContainerResponse{}, err
	}
	return ContainerResponse{ResourceResponse: rr, Definition: &stored, Container: c}, nil
}

// Replace overwrites mutable container properties such as the indexing
// policy and default TTL. The id and partition key cannot change.
func (c *Container) Replace(ctx context.Context, definition ContainerDefinition) (ContainerResponse, error) {
	if err := validateContainerDefinition(definition); err != nil {
		return ContainerResponse{}, err
	}

	var stored ContainerDefinition
	rr, err := c.client.replace(ctx, c.link, resourceTypeContainer, definition, requestHeaders{}, &stored)
	if err != nil {
		return ContainerResponse{}, err
	}
	return ContainerResponse{ResourceResponse: rr, Definition: &stored, Container: c}, nil
}

// Delete removes the container and its items.
func (c *Container) Delete(ctx context.Context) (ContainerResponse, error) {
	rr, err := c.client.deleteResource(ctx, c.link, resourceTypeContainer, requestHeaders{})
	if err != nil {
		return ContainerResponse{}, err
	}
	return ContainerResponse{ResourceResponse: rr, Container: c}, nil
}

// Items returns the item collection facade of this container.
func (c *Container) Items() *Items {
	return &Items{client: c.client, containerLink: c.link}
}

// Item returns a handle to an item by id and partition key without a
// network call.
func (c *Container) Item(id string, partitionKey PartitionKey) *Item {
	return &Item{
		client:       c.client,
		id:           id,
		link:         childLink(c.link, resourceTypeDocument, id),
		partitionKey: partitionKey,
	}
}

// Scripts groups the server-side script facades of this container.
func (c *Container) Scripts() *Scripts {
	return &Scripts{client: c.client, containerLink: c.link}
}
