package cache

import (
	"testing"
	"time"
)

func TestSetGetDelete(t *testing.T) {
	c := NewLRUCache[string](4, time.Minute)

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("expected hit with 1, got %q ok=%v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}

	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("expected overwrite to 2, got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("overwrite must not grow cache, size=%d", c.Size())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](4, 10*time.Millisecond)

	c.Set("k", 7)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	c.Set("x", 1)
	time.Sleep(25 * time.Millisecond)
	c.Set("y", 2)
	if cleaned := c.CleanExpired(); cleaned != 1 {
		t.Fatalf("expected 1 cleaned, got %d", cleaned)
	}
	if _, ok := c.Get("y"); !ok {
		t.Fatalf("fresh entry must survive cleanup")
	}
}

func TestSizeBoundEvictsLRU(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a, making b the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c to survive")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)

	c.Set("expense|2024-01-01|2024-01-31|", 1)
	c.Set("expense|2024-02-01|2024-02-29|food", 2)
	c.Set("credit|2024-01-01|2024-01-31|", 3)

	if removed := c.DeletePrefix("expense|"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("credit|2024-01-01|2024-01-31|"); !ok {
		t.Fatalf("credit entry must survive expense invalidation")
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRUCache[int](8, 5*time.Millisecond)
	m := NewManager()
	m.Register(c)

	c.Set("k", 1)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.After(500 * time.Millisecond)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatalf("cleanup never removed expired entry")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Stop() // must not block
}
