package cosmos

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devjourney/cosmos/pkg/config"
	"github.com/devjourney/cosmos/pkg/observability/logger"
)

// testMasterKey is a base64-encoded throwaway key for signing test requests.
var testMasterKey = base64.StdEncoding.EncodeToString([]byte("test-account-key"))

// newTestClient builds a client against an httptest server running handler.
// The server is torn down with the test.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.Account.Endpoint = server.URL
	cfg.Account.MasterKey = testMasterKey
	cfg.Retry.InitialBackoff = time.Millisecond
	cfg.Retry.MaxBackoff = 5 * time.Millisecond

	client, err := NewClient(cfg, logger.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// jsonHandler answers every request with the given status and body.
func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// countingHandler wraps a handler and counts invocations.
type countingHandler struct {
	calls int
	next  http.Handler
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	h.next.ServeHTTP(w, r)
}
