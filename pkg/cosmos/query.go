package cosmos

// SQLParameter is a named value referenced from a parameterized query text.
type SQLParameter struct {
	// Name is the parameter placeholder, including the leading "@".
	Name string `json:"name"`
	// Value is any JSON-encodable value.
	Value any `json:"value"`
}

// SQLQuerySpec is a parameterized query.
//
// Example:
//
//	spec := cosmos.SQLQuerySpec{
//		Query:      "SELECT * FROM c WHERE c.state = @state",
//		Parameters: []cosmos.SQLParameter{{Name: "@state", Value: "open"}},
//	}
type SQLQuerySpec struct {
	Query      string         `json:"query"`
	Parameters []SQLParameter `json:"parameters,omitempty"`
}

// NewQuery builds a query spec from plain query text.
func NewQuery(text string) SQLQuerySpec {
	return SQLQuerySpec{Query: text}
}

// QueryOptions adjusts feed and query operations. The zero value requests
// service defaults.
type QueryOptions struct {
	// MaxItemCount caps the number of results per page; <=0 lets the
	// service choose.
	MaxItemCount int
	// ContinuationToken resumes a previously started feed.
	ContinuationToken string
	// PartitionKey scopes the query to one logical partition.
	PartitionKey PartitionKey
	// EnableCrossPartition allows the service to fan the query out when no
	// partition key is given.
	EnableCrossPartition bool
	// ConsistencyLevel overrides the client consistency for this read.
	ConsistencyLevel string
	// SessionToken replays an explicit session for this read.
	SessionToken string
}

// ItemOptions adjusts point operations on items.
type ItemOptions struct {
	// IfMatchETag makes the write conditional on the stored etag.
	IfMatchETag string
	// ConsistencyLevel overrides the client consistency for this read.
	ConsistencyLevel string
	// SessionToken replays an explicit session for this read.
	SessionToken string
}
