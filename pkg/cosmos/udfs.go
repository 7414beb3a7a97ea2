package cosmos

import "context"

// UserDefinedFunctions operates on the user-defined function feed of one
// container. UDFs extend the query language; they are registered here and
// invoked from query text, never executed directly.
type UserDefinedFunctions struct {
	client        *clientContext
	containerLink string
}

// UserDefinedFunctionResponse pairs a UDF operation result with a handle to
// the affected function.
type UserDefinedFunctionResponse struct {
	ResourceResponse
	// Definition is the stored function definition, nil on delete.
	Definition *UserDefinedFunctionDefinition
	// UserDefinedFunction is a handle to the affected function.
	UserDefinedFunction *UserDefinedFunction
}

// Create stores a new function. The id and body are validated locally
// before any request is issued.
func (u *UserDefinedFunctions) Create(ctx context.Context, definition UserDefinedFunctionDefinition) (UserDefinedFunctionResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return UserDefinedFunctionResponse{}, err
	}

	var stored UserDefinedFunctionDefinition
	rr, err := u.client.create(ctx, u.containerLink, resourceTypeUDF, "create", definition, requestHeaders{}, &stored)
	if err != nil {
		return UserDefinedFunctionResponse{}, err
	}
	return u.response(rr, &stored), nil
}

// Upsert stores the function, replacing any existing one with the same id.
func (u *UserDefinedFunctions) Upsert(ctx context.Context, definition UserDefinedFunctionDefinition) (UserDefinedFunctionResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return UserDefinedFunctionResponse{}, err
	}

	var stored UserDefinedFunctionDefinition
	rr, err := u.client.create(ctx, u.containerLink, resourceTypeUDF, "upsert", definition, requestHeaders{isUpsert: true}, &stored)
	if err != nil {
		return UserDefinedFunctionResponse{}, err
	}
	return u.response(rr, &stored), nil
}

// ReadAll returns an iterator over every function in the container.
func (u *UserDefinedFunctions) ReadAll(opts *QueryOptions) *FeedIterator[UserDefinedFunctionDefinition] {
	return newFeed[UserDefinedFunctionDefinition](u.client, u.containerLink, resourceTypeUDF, nil, opts)
}

// Query returns an iterator over functions matching the query.
func (u *UserDefinedFunctions) Query(query SQLQuerySpec, opts *QueryOptions) *FeedIterator[UserDefinedFunctionDefinition] {
	return newFeed[UserDefinedFunctionDefinition](u.client, u.containerLink, resourceTypeUDF, &query, opts)
}

func (u *UserDefinedFunctions) response(rr ResourceResponse, stored *UserDefinedFunctionDefinition) UserDefinedFunctionResponse {
	return UserDefinedFunctionResponse{
		ResourceResponse: rr,
		Definition:       stored,
		UserDefinedFunction: &UserDefinedFunction{
			client: u.client,
			id:     stored.ID,
			link:   childLink(u.containerLink, resourceTypeUDF, stored.ID),
		},
	}
}

// UserDefinedFunction is a handle to one user-defined function.
type UserDefinedFunction struct {
	client *clientContext
	id     string
	link   string
}

// ID returns the function id.
func (f *UserDefinedFunction) ID() string { return f.id }

// Link returns the canonical resource link.
func (f *UserDefinedFunction) Link() string { return f.link }

// Read fetches the function definition.
func (f *UserDefinedFunction) Read(ctx context.Context) (UserDefinedFunctionResponse, error) {
	var stored UserDefinedFunctionDefinition
	rr, err := f.client.read(ctx, f.link, resourceTypeUDF, requestHeaders{}, &stored)
	if err != nil {
		return UserDefinedFunctionResponse{}, err
	}
	return UserDefinedFunctionResponse{ResourceResponse: rr, Definition: &stored, UserDefinedFunction: f}, nil
}

// Replace overwrites the function definition.
func (f *UserDefinedFunction) Replace(ctx context.Context, definition UserDefinedFunctionDefinition) (UserDefinedFunctionResponse, error) {
	if err := validateScript(definition.ID, definition.Body); err != nil {
		return UserDefinedFunctionResponse{}, err
	}

	var stored UserDefinedFunctionDefinition
	rr, err := f.client.replace(ctx, f.link, resourceTypeUDF, definition, requestHeaders{}, &stored)
	if err != nil {
		return UserDefinedFunctionResponse{}, err
	}
	return UserDefinedFunctionResponse{ResourceResponse: rr, Definition: &stored, UserDefinedFunction: f}, nil
}

// Delete removes the function.
func (f *UserDefinedFunction) Delete(ctx context.Context) (UserDefinedFunctionResponse, error) {
	rr, err := f.client.deleteResource(ctx, f.link, resourceTypeUDF, requestHeaders{})
	if err != nil {
		return UserDefinedFunctionResponse{}, err
	}
	return UserDefinedFunctionResponse{ResourceResponse: rr, UserDefinedFunction: f}, nil
}
