package version

import (
	"strings"
	"testing"
	"time"
)

func TestCurrent_Defaults(t *testing.T) {
	info := Current("cosmos-client")
	if info.Service != "cosmos-client" {
		t.Fatalf("unexpected service: %q", info.Service)
	}
	if info.Version != DevelopmentVersion {
		t.Fatalf("unexpected version: %q", info.Version)
	}
	if info.Commit != Unknown {
		t.Fatalf("unexpected commit: %q", info.Commit)
	}
}

func TestCurrent_NormalizesBlankService(t *testing.T) {
	info := Current("   ")
	if info.Service != Unknown {
		t.Fatalf("expected unknown service, got %q", info.Service)
	}
}

func TestParseBuildTime(t *testing.T) {
	info := Info{BuildTime: "2026-01-02T15:04:05Z"}
	ts, ok := info.ParseBuildTime()
	if !ok {
		t.Fatal("expected parseable build time")
	}
	if ts.Year() != 2026 || ts.Month() != time.January {
		t.Fatalf("unexpected timestamp: %v", ts)
	}

	if _, ok := (Info{BuildTime: Unknown}).ParseBuildTime(); ok {
		t.Fatal("expected unknown build time to be unparseable")
	}
	if _, ok := (Info{BuildTime: "yesterday"}).ParseBuildTime(); ok {
		t.Fatal("expected malformed build time to be unparseable")
	}
}

func TestString_ContainsAllFields(t *testing.T) {
	s := Info{Service: "svc", Version: "v1.2.3", Commit: "abc", BuildTime: "t"}.String()
	for _, part := range []string{"svc", "v1.2.3", "abc"} {
		if !strings.Contains(s, part) {
			t.Fatalf("expected %q in %q", part, s)
		}
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("")
	if !strings.HasPrefix(ua, "devjourney-cosmos-go/") {
		t.Fatalf("unexpected user agent: %q", ua)
	}

	withSuffix := UserAgent("myapp/2.0")
	if !strings.HasSuffix(withSuffix, " myapp/2.0") {
		t.Fatalf("suffix not appended: %q", withSuffix)
	}
}
