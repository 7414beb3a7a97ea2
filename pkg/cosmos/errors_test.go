package cosmos

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewServiceError(t *testing.T) {
	t.Run("json envelope", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-ms-activity-id", "act-1")
		header.Set("x-ms-retry-after-ms", "250")

		err := newServiceError(http.StatusTooManyRequests, []byte(`{"code":"429","message":"Request rate is large"}`), header)
		if err.Code != "429" || err.Message != "Request rate is large" {
			t.Errorf("envelope fields = %q / %q", err.Code, err.Message)
		}
		if err.ActivityID != "act-1" {
			t.Errorf("activity id = %q", err.ActivityID)
		}
		if !err.Retryable() {
			t.Error("throttle error not retryable")
		}
		if err.RetryAfter() != 250*time.Millisecond {
			t.Errorf("retry after = %v", err.RetryAfter())
		}
	})

	t.Run("plain text body", func(t *testing.T) {
		err := newServiceError(http.StatusBadGateway, []byte("upstream unavailable\n"), http.Header{})
		if err.Code != "" || err.Message != "upstream unavailable" {
			t.Errorf("fields = %q / %q", err.Code, err.Message)
		}
	})
}

func TestErrorString(t *testing.T) {
	err := &Error{Status: 404, Code: "NotFound", Message: "gone", ActivityID: "act-9"}
	got := err.Error()
	for _, want := range []string{"NotFound", "404", "gone", "act-9"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}

	bare := &Error{Status: 503}
	if !strings.Contains(bare.Error(), "Service Unavailable") {
		t.Errorf("bare Error() = %q", bare.Error())
	}
}

func TestErrorClassification(t *testing.T) {
	for status, check := range map[int]func(error) bool{
		http.StatusNotFound:            IsNotFound,
		http.StatusConflict:            IsConflict,
		http.StatusPreconditionFailed:  IsPreconditionFailed,
		http.StatusTooManyRequests:     IsThrottled,
	} {
		if !check(&Error{Status: status}) {
			t.Errorf("classifier for %d rejected its own status", status)
		}
	}
	if IsNotFound(nil) || IsNotFound(&Error{Status: 409}) {
		t.Error("IsNotFound misclassified")
	}
}

func TestErrorRetryability(t *testing.T) {
	retryable := []int{http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusRequestTimeout}
	for _, status := range retryable {
		if !(&Error{Status: status}).Retryable() {
			t.Errorf("status %d not retryable", status)
		}
	}
	for _, status := range []int{400, 401, 403, 404, 409, 412, 500} {
		if (&Error{Status: status}).Retryable() {
			t.Errorf("status %d retryable", status)
		}
	}
}

