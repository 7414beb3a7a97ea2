package cosmos

import (
	"fmt"
	"strings"
)

// Resource type discriminators consumed by the dispatch layer. They double
// as the path segment under the parent resource.
const (
	resourceTypeAccount         = ""
	resourceTypeDatabase        = "dbs"
	resourceTypeContainer       = "colls"
	resourceTypeDocument        = "docs"
	resourceTypeStoredProcedure = "sprocs"
	resourceTypeUDF             = "udfs"
	resourceTypeTrigger         = "triggers"
	resourceTypeUser            = "users"
	resourceTypePermission      = "permissions"
)

// feedKeys maps a resource type to the array key of its feed envelope.
var feedKeys = map[string]string{
	resourceTypeDatabase:        "Databases",
	resourceTypeContainer:       "DocumentCollections",
	resourceTypeDocument:        "Documents",
	resourceTypeStoredProcedure: "StoredProcedures",
	resourceTypeUDF:             "UserDefinedFunctions",
	resourceTypeTrigger:         "Triggers",
	resourceTypeUser:            "Users",
	resourceTypePermission:      "Permissions",
}

// childLink builds the address of a child resource under a parent feed,
// e.g. childLink("dbs/tasks", "colls", "items") == "dbs/tasks/colls/items".
func childLink(parentLink, resourceType, id string) string {
	if parentLink == "" {
		return resourceType + "/" + id
	}
	return parentLink + "/" + resourceType + "/" + id
}

// feedPath builds the request path of a resource feed under a parent.
func feedPath(parentLink, resourceType string) string {
	if parentLink == "" {
		return "/" + resourceType
	}
	return "/" + parentLink + "/" + resourceType
}

// validateResourceID rejects ids the service would refuse, before any
// network I/O: empty ids and ids containing path or header delimiters.
func validateResourceID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}
	if strings.ContainsAny(id, "/\\?#") {
		return fmt.Errorf("%w: %q", ErrIDInvalid, id)
	}
	if strings.HasSuffix(id, " ") {
		return fmt.Errorf("%w: %q ends with a space", ErrIDInvalid, id)
	}
	return nil
}
