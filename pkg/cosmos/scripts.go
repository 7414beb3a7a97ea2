package cosmos

// Scripts groups the server-side script facades of one container: stored
// procedures, user-defined functions, and triggers all live under the
// container and share its partitioning.
type Scripts struct {
	client        *clientContext
	containerLink string
}

// StoredProcedures returns the stored procedure collection facade.
func (s *Scripts) StoredProcedures() *StoredProcedures {
	return &StoredProcedures{client: s.client, containerLink: s.containerLink}
}

// StoredProcedure returns a handle to a stored procedure by id without a
// network call.
func (s *Scripts) StoredProcedure(id string) *StoredProcedure {
	return &StoredProcedure{
		client: s.client,
		id:     id,
		link:   childLink(s.containerLink, resourceTypeStoredProcedure, id),
	}
}

// UserDefinedFunctions returns the user-defined function collection facade.
func (s *Scripts) UserDefinedFunctions() *UserDefinedFunctions {
	return &UserDefinedFunctions{client: s.client, containerLink: s.containerLink}
}

// UserDefinedFunction returns a handle to a user-defined function by id
// without a network call.
func (s *Scripts) UserDefinedFunction(id string) *UserDefinedFunction {
	return &UserDefinedFunction{
		client: s.client,
		id:     id,
		link:   childLink(s.containerLink, resourceTypeUDF, id),
	}
}

// Triggers returns the trigger collection facade.
func (s *Scripts) Triggers() *Triggers {
	return &Triggers{client: s.client, containerLink: s.containerLink}
}

// Trigger returns a handle to a trigger by id without a network call.
func (s *Scripts) Trigger(id string) *Trigger {
	return &Trigger{
		client: s.client,
		id:     id,
		link:   childLink(s.containerLink, resourceTypeTrigger, id),
	}
}
