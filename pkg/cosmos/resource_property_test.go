package cosmos

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_ResourceIDValidation validates that id validation is
// consistent: accepted ids never contain a reserved character, and ids
// containing one are always rejected.
func TestProperty_ResourceIDValidation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("accepted ids carry no reserved characters", prop.ForAll(
		func(id string) bool {
			if err := validateResourceID(id); err != nil {
				return true
			}
			return !strings.ContainsAny(id, "/\\?#") &&
				strings.TrimSpace(id) != "" &&
				!strings.HasSuffix(id, " ")
		},
		gen.AnyString(),
	))

	properties.Property("ids with a reserved character are rejected", prop.ForAll(
		func(prefix, suffix string, reserved rune) bool {
			id := prefix + string(reserved) + suffix
			return validateResourceID(id) != nil
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.OneConstOf('/', '\\', '?', '#'),
	))

	properties.TestingRun(t)
}

// TestProperty_LinkConstruction validates that links compose: the child link
// under a parent always extends the parent, and the feed path is always the
// child link minus the id.
func TestProperty_LinkConstruction(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	resourceTypes := gen.OneConstOf(
		resourceTypeContainer,
		resourceTypeDocument,
		resourceTypeStoredProcedure,
		resourceTypeUDF,
		resourceTypeTrigger,
		resourceTypeUser,
		resourceTypePermission,
	)

	properties.Property("child links extend the parent link", prop.ForAll(
		func(db, id string, rt string) bool {
			parent := childLink("", resourceTypeDatabase, db)
			link := childLink(parent, rt, id)
			return strings.HasPrefix(link, parent+"/"+rt+"/") &&
				strings.HasSuffix(link, "/"+id)
		},
		gen.Identifier(),
		gen.Identifier(),
		resourceTypes,
	))

	properties.Property("feed path is the child link without the id", prop.ForAll(
		func(db, id string, rt string) bool {
			parent := childLink("", resourceTypeDatabase, db)
			link := childLink(parent, rt, id)
			return feedPath(parent, rt)+"/"+id == "/"+link
		},
		gen.Identifier(),
		gen.Identifier(),
		resourceTypes,
	))

	properties.TestingRun(t)
}
