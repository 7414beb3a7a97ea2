package cosmos

import (
	"errors"
	"testing"
)

func TestChildLink(t *testing.T) {
	tests := []struct {
		parent string
		rt     string
		id     string
		want   string
	}{
		{"", resourceTypeDatabase, "db1", "dbs/db1"},
		{"dbs/db1", resourceTypeContainer, "coll1", "dbs/db1/colls/coll1"},
		{"dbs/db1/colls/coll1", resourceTypeDocument, "doc1", "dbs/db1/colls/coll1/docs/doc1"},
		{"dbs/db1/users/app", resourceTypePermission, "p1", "dbs/db1/users/app/permissions/p1"},
	}

	for _, tt := range tests {
		if got := childLink(tt.parent, tt.rt, tt.id); got != tt.want {
			t.Errorf("childLink(%q, %q, %q) = %q, want %q", tt.parent, tt.rt, tt.id, got, tt.want)
		}
	}
}

func TestFeedPath(t *testing.T) {
	if got := feedPath("", resourceTypeDatabase); got != "/dbs" {
		t.Errorf("feedPath root = %q", got)
	}
	if got := feedPath("dbs/db1", resourceTypeContainer); got != "/dbs/db1/colls" {
		t.Errorf("feedPath nested = %q", got)
	}
}

func TestValidateResourceID(t *testing.T) {
	valid := []string{"a", "tasks", "My-Container_01", "id with spaces inside", "üñïçödé"}
	for _, id := range valid {
		if err := validateResourceID(id); err != nil {
			t.Errorf("validateResourceID(%q) = %v, want nil", id, err)
		}
	}

	invalid := map[string]error{
		"":      ErrIDRequired,
		"  ":    ErrIDRequired,
		"a/b":   ErrIDInvalid,
		`a\b`:   ErrIDInvalid,
		"a?b":   ErrIDInvalid,
		"a#b":   ErrIDInvalid,
		"ends ": ErrIDInvalid,
	}
	for id, want := range invalid {
		if err := validateResourceID(id); !errors.Is(err, want) {
			t.Errorf("validateResourceID(%q) = %v, want %v", id, err, want)
		}
	}
}
