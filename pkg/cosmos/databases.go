package cosmos

import (
	"context"
)

// Databases operates on the database feed of the account.
type Databases struct {
	client *clientContext
}

// DatabaseResponse pairs a database operation result with a handle to the
// affected database.
type DatabaseResponse struct {
	ResourceResponse
	// Definition is the stored database definition, nil on delete.
	Definition *DatabaseDefinition
	// Database is a handle to the affected database.
	Database *Database
}

// Create creates a new database. The definition id is validated locally
// before any request is issued.
func (d *Databases) Create(ctx context.Context, definition DatabaseDefinition) (DatabaseResponse, error) {
	if err := validateResourceID(definition.ID); err != nil {
		return DatabaseResponse{}, err
	}

	var stored DatabaseDefinition
	rr, err := d.client.create(ctx, "", resourceTypeDatabase, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return DatabaseResponse{}, err
	}
	return d.response(rr, &stored), nil
}

// CreateIfNotExists creates the database, or reads it when the id already
// exists. The response status distinguishes the two outcomes.
func (d *Databases) CreateIfNotExists(ctx context.Context, definition DatabaseDefinition) (DatabaseResponse, error) {
	resp, err := d.Create(ctx, definition)
	if err == nil || !IsConflict(err) {
		return resp, err
	}
	return d.database(definition.ID).Read(ctx)
}

// ReadAll returns an iterator over every database in the account.
func (d *Databases) ReadAll(opts *QueryOptions) *FeedIterator[DatabaseDefinition] {
	return newFeed[DatabaseDefinition](d.client, "", resourceTypeDatabase, nil, opts)
}

// Query returns an iterator over databases matching the query.
func (d *Databases) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[DatabaseDefinition] {
	return newFeed[DatabaseDefinition](d.client, "", resourceTypeDatabase, &query, opts)
}

func (d *Databases) database(id string) *Database {
	return &Database{client: d.client, id: id, link: childLink("", resourceTypeDatabase, id)}
}

func (d *Databases) response(rr ResourceResponse, stored *DatabaseDefinition) DatabaseResponse {
	return DatabaseResponse{
		ResourceResponse: rr,
		Definition:       stored,
		Database:         d.database(stored.ID),
	}
}

// Database is a handle to one database. Handles are cheap: construction
// never performs network I/O.
type Database struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the database id.
func (db *Database) ID() string { return db.id }

// Link returns the canonical resource link, e.g. "dbs/tasks".
func (db *Database) Link() string { return db.link }

// Read fetches the database definition.
func (db *Database) Read(ctx context.Context) (DatabaseResponse, error) {
	var stored DatabaseDefinition
	rr, err := db.client.read(ctx, db.link, resourceTypeDatabase, requestHeaders{}, &stored)
	if err != nil {
		return DatabaseResponse{}, err
	}
	return DatabaseResponse{ResourceResponse: rr, Definition: &stored, Database: db}, nil
}

// Delete removes the database and everything under it.
func (db *Database) Delete(ctx context.Context) (DatabaseResponse, error) {
	rr, err := db.client.deleteResource(ctx, db.link, resourceTypeDatabase, requestHeaders{})
	if err != nil {
		return DatabaseResponse{}, err
	}
	return DatabaseResponse{ResourceResponse: rr, Database: db}, nil
}

// Containers returns the container collection facade of this database.
func (db *Database) Containers() *Containers {
	return &Containers{client: db.client, databaseLink: db.link}
}

// Container returns a handle to a container by id without a network call.
func (db *Database) Container(id string) *Container {
	return &Container{
		client: db.client,
		id:     id,
		link:   childLink(db.link, resourceTypeContainer, id),
	}
}

// Users returns the user collection facade of this database.
func (db *Database) Users() *Users {
	return &Users{client: db.client, databaseLink: db.link}
}

// User returns a handle to a user by id without a network call.
func (db *Database) User(id string) *User {
	return &User{
		client: db.client,
		id:     id,
		link:   childLink(db.link, resourceTypeUser, id),
	}
}
