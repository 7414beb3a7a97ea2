package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func testScripts(t *testing.T, handler http.Handler) *Scripts {
	t.Helper()
	client := newTestClient(t, handler)
	return client.Database("db1").Container("coll1").Scripts()
}

// TestScripts_ValidateBeforeNetwork verifies script definitions are checked
// locally: the server must never see an invalid create.
func TestScripts_ValidateBeforeNetwork(t *testing.T) {
	handler := &countingHandler{next: jsonHandler(http.StatusCreated, `{"id":"x"}`)}
	scripts := testScripts(t, handler)
	ctx := context.Background()

	t.Run("sproc without body", func(t *testing.T) {
		_, err := scripts.StoredProcedures().Create(ctx, StoredProcedureDefinition{ID: "sp1"})
		if !errors.Is(err, ErrBodyRequired) {
			t.Errorf("error = %v, want ErrBodyRequired", err)
		}
	})

	t.Run("udf without id", func(t *testing.T) {
		_, err := scripts.UserDefinedFunctions().Create(ctx, UserDefinedFunctionDefinition{Body: "function(){}"})
		if !errors.Is(err, ErrIDRequired) {
			t.Errorf("error = %v, want ErrIDRequired", err)
		}
	})

	t.Run("trigger without type", func(t *testing.T) {
		_, err := scripts.Triggers().Create(ctx, TriggerDefinition{
			ID:               "t1",
			Body:             "function(){}",
			TriggerOperation: TriggerOperationAll,
		})
		if err == nil || !strings.Contains(err.Error(), "trigger type") {
			t.Errorf("error = %v, want trigger type complaint", err)
		}
	})

	t.Run("trigger with unknown operation", func(t *testing.T) {
		_, err := scripts.Triggers().Create(ctx, TriggerDefinition{
			ID:               "t1",
			Body:             "function(){}",
			TriggerType:      TriggerTypePre,
			TriggerOperation: "Merge",
		})
		if err == nil || !strings.Contains(err.Error(), "trigger operation") {
			t.Errorf("error = %v, want trigger operation complaint", err)
		}
	})

	if handler.calls != 0 {
		t.Errorf("server saw %d requests, want 0", handler.calls)
	}
}

func TestStoredProcedures_Create(t *testing.T) {
	var path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"sp1","body":"function(){}"}`))
	}))

	sprocs := client.Database("db1").Container("coll1").Scripts().StoredProcedures()
	resp, err := sprocs.Create(context.Background(), StoredProcedureDefinition{ID: "sp1", Body: "function(){}"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if path != "/dbs/db1/colls/coll1/sprocs" {
		t.Errorf("request path = %q", path)
	}
	if resp.StoredProcedure.Link() != "dbs/db1/colls/coll1/sprocs/sp1" {
		t.Errorf("sproc link = %q", resp.StoredProcedure.Link())
	}
}

// TestStoredProcedure_Execute verifies execution POSTs the argument array
// to the procedure link within the given partition.
func TestStoredProcedure_Execute(t *testing.T) {
	var (
		method string
		path   string
		pk     string
		body   []byte
	)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		pk = r.Header.Get("x-ms-documentdb-partitionkey")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"accepted":true,"total":7}`))
	}))

	sproc := client.Database("db1").Container("coll1").Scripts().StoredProcedure("sp1")
	resp, err := sproc.Execute(context.Background(), NewPartitionKeyString("tenant-a"), "arg1", 2)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if method != http.MethodPost || path != "/dbs/db1/colls/coll1/sprocs/sp1" {
		t.Errorf("request = %s %s", method, path)
	}
	if pk != `["tenant-a"]` {
		t.Errorf("partition key header = %q", pk)
	}

	var args []any
	if err := json.Unmarshal(body, &args); err != nil {
		t.Fatalf("execute body is not an argument array: %v", err)
	}
	if len(args) != 2 || args[0] != "arg1" {
		t.Errorf("args = %v", args)
	}

	var result struct {
		Accepted bool `json:"accepted"`
		Total    int  `json:"total"`
	}
	if err := resp.Into(&result); err != nil {
		t.Fatalf("Into() failed: %v", err)
	}
	if !result.Accepted || result.Total != 7 {
		t.Errorf("result = %+v", result)
	}
}

func TestStoredProcedure_ExecuteNoArgs(t *testing.T) {
	var body []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`null`))
	}))

	sproc := client.Database("db1").Container("coll1").Scripts().StoredProcedure("sp1")
	if _, err := sproc.Execute(context.Background(), NewPartitionKeyString("p")); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("no-arg body = %q, want []", body)
	}
}

func TestTriggers_Feed(t *testing.T) {
	client := newTestClient(t, jsonHandler(http.StatusOK, `{
		"_count": 1,
		"Triggers": [{"id": "t1", "triggerType": "Pre", "triggerOperation": "Create"}]
	}`))

	triggers, err := client.Database("db1").Container("coll1").Scripts().Triggers().ReadAll(nil).All(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(triggers) != 1 || triggers[0].TriggerType != TriggerTypePre {
		t.Errorf("triggers = %+v", triggers)
	}
}

func TestUserDefinedFunctions_Replace(t *testing.T) {
	var method, path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"tax","body":"function(v){return v*1.2;}"}`))
	}))

	udf := client.Database("db1").Container("coll1").Scripts().UserDefinedFunction("tax")
	resp, err := udf.Replace(context.Background(), UserDefinedFunctionDefinition{ID: "tax", Body: "function(v){return v*1.2;}"})
	if err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}
	if method != http.MethodPut || path != "/dbs/db1/colls/coll1/udfs/tax" {
		t.Errorf("request = %s %s", method, path)
	}
	if resp.Definition.Body == "" {
		t.Error("stored definition lost its body")
	}
}
