package cosmos

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestUsers_Create(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"app"}`))
	}))

	resp, err := client.Database("db1").Users().Create(context.Background(), UserDefinition{ID: "app"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if path != "/dbs/db1/users" {
		t.Errorf("request path = %q", path)
	}
	if resp.User.Link() != "dbs/db1/users/app" {
		t.Errorf("user link = %q", resp.User.Link())
	}
}

func TestPermissions_ValidateBeforeNetwork(t *testing.T) {
	handler := &countingHandler{next: jsonHandler(http.StatusCreated, `{"id":"x"}`)}
	client := newTestClient(t, handler)
	perms := client.Database("db1").User("app").Permissions()
	ctx := context.Background()

	tests := []struct {
		name       string
		definition PermissionDefinition
		wantErr    string
	}{
		{
			name:       "missing id",
			definition: PermissionDefinition{PermissionMode: PermissionModeRead, Resource: "dbs/db1/colls/coll1"},
			wantErr:    "id is required",
		},
		{
			name:       "missing mode",
			definition: PermissionDefinition{ID: "p1", Resource: "dbs/db1/colls/coll1"},
			wantErr:    "permission mode is required",
		},
		{
			name:       "unknown mode",
			definition: PermissionDefinition{ID: "p1", PermissionMode: "Write", Resource: "dbs/db1/colls/coll1"},
			wantErr:    "unknown permission mode",
		},
		{
			name:       "missing resource",
			definition: PermissionDefinition{ID: "p1", PermissionMode: PermissionModeAll},
			wantErr:    "resource link is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := perms.Create(ctx, tt.definition)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Create() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	if handler.calls != 0 {
		t.Errorf("server saw %d requests, want 0", handler.calls)
	}
}

func TestPermission_ReadReturnsToken(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{
		"id": "p1",
		"permissionMode": "Read",
		"resource": "dbs/db1/colls/coll1",
		"_token": "type=resource&ver=1.0&sig=abc"
	}`))

	resp, err := client.Database("db1").User("app").Permission("p1").Read(context.Background())
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if resp.Definition.Token == "" {
		t.Error("permission read did not surface the resource token")
	}
	if resp.Definition.PermissionMode != PermissionModeRead {
		t.Errorf("mode = %q", resp.Definition.PermissionMode)
	}
}

func TestUser_Delete(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if _, err := client.Database("db1").User("app").Delete(context.Background()); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if path != "/dbs/db1/users/app" {
		t.Errorf("request path = %q", path)
	}
}

func TestUsers_UpsertInvalidID(t *testing.T) {
	handler := &countingHandler{next: jsonHandler(http.StatusOK, `{}`)}
	client := newTestClient(t, handler)

	_, err := client.Database("db1").Users().Upsert(context.Background(), UserDefinition{ID: "a?b"})
	if !errors.Is(err, ErrIDInvalid) {
		t.Errorf("error = %v, want ErrIDInvalid", err)
	}
	if handler.calls != 0 {
		t.Errorf("server saw %d requests, want 0", handler.calls)
	}
}
