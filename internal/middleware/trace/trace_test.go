package trace

import (
	"context"
	"strings"
	"testing"
)

func TestNewCallIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCallID()
		if !strings.HasPrefix(id, "call_") {
			t.Fatalf("call id %q missing call_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate call id %q", id)
		}
		seen[id] = true
	}
}

func TestCallIDContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := GetCallID(ctx); got != "" {
		t.Fatalf("GetCallID on empty context = %q, want empty", got)
	}

	ctx = WithCallID(ctx, "call_test123")
	if got := GetCallID(ctx); got != "call_test123" {
		t.Fatalf("GetCallID = %q, want %q", got, "call_test123")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	m := r.GetMetrics()
	if m.TotalCalls != 0 {
		t.Fatalf("TotalCalls = %d, want 0", m.TotalCalls)
	}

	r.Observe(12)
	r.Observe(40)

	m = r.GetMetrics()
	if m.TotalCalls != 2 {
		t.Fatalf("TotalCalls = %d, want 2", m.TotalCalls)
	}
	if m.LastDurationMs != 40 {
		t.Fatalf("LastDurationMs = %d, want 40", m.LastDurationMs)
	}
}
