package cosmos

import "encoding/json"

// ResourceMeta carries the system properties the service stamps on every
// stored resource. Fields are populated on responses and ignored on input.
type ResourceMeta struct {
	// RID is the service-assigned immutable resource id.
	RID string `json:"_rid,omitempty"`
	// Self is the service-assigned canonical address.
	Self string `json:"_self,omitempty"`
	// ETag changes on every write and drives optimistic concurrency.
	ETag string `json:"_etag,omitempty"`
	// Timestamp is the epoch second of the last write.
	Timestamp int64 `json:"_ts,omitempty"`
}

// DatabaseDefinition describes a database resource.
type DatabaseDefinition struct {
	ID string `json:"id"`
	ResourceMeta
}

// ContainerDefinition describes a container (document collection) resource.
type ContainerDefinition struct {
	ID string `json:"id"`
	// PartitionKey declares the partitioning scheme. Required by the service
	// for new containers on partitioned accounts.
	PartitionKey *PartitionKeyDefinition `json:"partitionKey,omitempty"`
	// IndexingPolicy customizes which paths are indexed.
	IndexingPolicy *IndexingPolicy `json:"indexingPolicy,omitempty"`
	// DefaultTTL is the default time-to-live in seconds; -1 means items
	// never expire unless they carry their own ttl.
	DefaultTTL *int32 `json:"defaultTtl,omitempty"`
	// UniqueKeyPolicy declares uniqueness constraints within a partition.
	UniqueKeyPolicy *UniqueKeyPolicy `json:"uniqueKeyPolicy,omitempty"`
	ResourceMeta
}

// PartitionKeyDefinition declares the partitioning scheme of a container.
type PartitionKeyDefinition struct {
	Paths   []string `json:"paths"`
	Kind    string   `json:"kind,omitempty"`
	Version int      `json:"version,omitempty"`
}

// IndexingPolicy customizes container indexing.
type IndexingPolicy struct {
	Automatic     bool           `json:"automatic"`
	IndexingMode  string         `json:"indexingMode,omitempty"`
	IncludedPaths []IncludedPath `json:"includedPaths,omitempty"`
	ExcludedPaths []ExcludedPath `json:"excludedPaths,omitempty"`
}

// IncludedPath is a path included by an indexing policy.
type IncludedPath struct {
	Path string `json:"path"`
}

// ExcludedPath is a path excluded by an indexing policy.
type ExcludedPath struct {
	Path string `json:"path"`
}

// UniqueKeyPolicy declares per-partition uniqueness constraints.
type UniqueKeyPolicy struct {
	UniqueKeys []UniqueKey `json:"uniqueKeys,omitempty"`
}

// UniqueKey is a set of paths whose combined values must be unique.
type UniqueKey struct {
	Paths []string `json:"paths"`
}

// Trigger types and operations.
const (
	TriggerTypePre  = "Pre"
	TriggerTypePost = "Post"

	TriggerOperationAll     = "All"
	TriggerOperationCreate  = "Create"
	TriggerOperationReplace = "Replace"
	TriggerOperationDelete  = "Delete"
)

// StoredProcedureDefinition describes a server-stored procedure.
type StoredProcedureDefinition struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	ResourceMeta
}

// UserDefinedFunctionDefinition describes a server-stored function invoked
// from queries.
type UserDefinedFunctionDefinition struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	ResourceMeta
}

// TriggerDefinition describes a script run before or after item operations.
type TriggerDefinition struct {
	ID string `json:"id"`
	// Body is the script source.
	Body string `json:"body"`
	// TriggerType is Pre or Post.
	TriggerType string `json:"triggerType"`
	// TriggerOperation is the item operation the trigger applies to.
	TriggerOperation string `json:"triggerOperation"`
	ResourceMeta
}

// UserDefinition describes a database user, the scope under which
// permissions are granted.
type UserDefinition struct {
	ID string `json:"id"`
	ResourceMeta
}

// Permission modes.
const (
	PermissionModeRead = "Read"
	PermissionModeAll  = "All"
)

// PermissionDefinition grants a user access to a single resource.
type PermissionDefinition struct {
	ID string `json:"id"`
	// PermissionMode is Read or All.
	PermissionMode string `json:"permissionMode"`
	// Resource is the link of the resource the permission applies to.
	Resource string `json:"resource"`
	// Token is the resource token minted by the service; response only.
	Token string `json:"_token,omitempty"`
	ResourceMeta
}

// AccountProperties describes the database account.
type AccountProperties struct {
	ID                           string                    `json:"id"`
	WritableLocations            []AccountLocation         `json:"writableLocations,omitempty"`
	ReadableLocations            []AccountLocation         `json:"readableLocations,omitempty"`
	ConsistencyPolicy            *AccountConsistencyPolicy `json:"consistencyPolicy,omitempty"`
	EnableMultipleWriteLocations bool                      `json:"enableMultipleWriteLocations,omitempty"`
	ResourceMeta
}

// AccountLocation is a regional endpoint of the account.
type AccountLocation struct {
	Name     string `json:"name"`
	Endpoint string `json:"databaseAccountEndpoint"`
}

// AccountConsistencyPolicy is the account default consistency.
type AccountConsistencyPolicy struct {
	DefaultConsistencyLevel string `json:"defaultConsistencyLevel"`
	MaxStalenessPrefix      int64  `json:"maxStalenessPrefix,omitempty"`
	MaxIntervalInSeconds    int    `json:"maxIntervalInSeconds,omitempty"`
}

// Document is a free-form item body. Callers usually unmarshal into their
// own struct types; Document is the schemaless fallback.
type Document map[string]json.RawMessage
