package cosmos

import "context"

// Users operates on the user feed of one database. Users exist to scope
// permissions; they carry no credentials of their own.
type Users struct {
	client       *clientContext
	databaseLink string
}

// UserResponse pairs a user operation result with a handle to the affected
// user.
type UserResponse struct {
	ResourceResponse
	// Definition is the stored user definition, nil on delete.
	Definition *UserDefinition
	// User is a handle to the affected user.
	User *User
}

// Create creates a new user. The id is validated locally before any request
// is issued.
func (u *Users) Create(ctx context.Context, definition UserDefinition) (UserResponse, error) {
	if err := validateResourceID(definition.ID); err != nil {
		return UserResponse{}, err
	}

	var stored UserDefinition
	rr, err := u.client.create(ctx, u.databaseLink, resourceTypeUser, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return UserResponse{}, err
	}
	return u.response(rr, &stored), nil
}

// Upsert creates the user, replacing any existing one with the same id.
func (u *Users) Upsert(ctx context.Context, definition UserDefinition) (UserResponse, error) {
	if err := validateResourceID(definition.ID); err != nil {
		return UserResponse{}, err
	}

	var stored UserDefinition
	rr, err := u.client.create(ctx, u.databaseLink, resourceTypeUser, "upsert", definition, requestHeaders{isUpsert: true}, &stored)
	if err != nil {
		return UserResponse{}, err
	}
	return u.response(rr, &stored), nil
}

// ReadAll returns an iterator over every user in the database.
func (u *Users) ReadAll(opts *QueryOptions) *FeedIterator[UserDefinition] {
	return newFeed[UserDefinition](u.client, u.databaseLink, resourceTypeUser, nil, opts)
}

// Query returns an iterator over users matching the query.
func (u *Users) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[UserDefinition] {
	return newFeed[UserDefinition](u.client, u.databaseLink, resourceTypeUser, &query, opts)
}

func (u *Users) response(rr ResourceResponse, stored *UserDefinition) UserResponse {
	return UserResponse{
		ResourceResponse: rr,
		Definition:       stored,
		User: &User{
			client: u.client,
			id:     stored.ID,
			link:   childLink(u.databaseLink, resourceTypeUser, stored.ID),
		},
	}
}

// User is a handle to one database user.
type User struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the user id.
func (us *User) ID() string { return us.id }

// Link returns the canonical resource link, e.g. "dbs/tasks/users/app".
func (us *User) Link() string { return us.link }

// Read fetches the user definition.
func (us *User) Read(ctx context.Context) (UserResponse, error) {
	var stored UserDefinition
	rr, err := us.client.read(ctx, us.link, resourceTypeUser, requestHeaders{}, &stored)
	if err != nil {
		return UserResponse{}, err
	}
	return UserResponse{ResourceResponse: rr, Definition: &stored, User: us}, nil
}

// Replace renames the user.
func (us *User) Replace(ctx context.Context, definition UserDefinition) (UserResponse, error) {
	if err := validateResourceID(definition.ID); err != nil {
		return UserResponse{}, err
	}

	var stored UserDefinition
	rr, err := us.client.replace(ctx, us.link, resourceTypeUser, definition, requestHeaders{}, &stored)
	if err != nil {
		return UserResponse{}, err
	}
	return UserResponse{ResourceResponse: rr, Definition: &stored, User: us}, nil
}

// Delete removes the user and its permissions.
func (us *User) Delete(ctx context.Context) (UserResponse, error) {
	rr, err := us.client.deleteResource(ctx, us.link, resourceTypeUser, requestHeaders{})
	if err != nil {
		return UserResponse{}, err
	}
	return UserResponse{ResourceResponse: rr, User: us}, nil
}

// Permissions returns the permission collection facade of this user.
func (us *User) Permissions() *Permissions {
	return &Permissions{client: us.client, userLink: us.link}
}

// Permission returns a handle to a permission by id without a network call.
func (us *User) Permission(id string) *Permission {
	return &Permission{
		client: us.client,
		id:     id,
		link:   childLink(us.link, resourceTypePermission, id),
	}
}
