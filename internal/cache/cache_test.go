package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mendel-gtm/gtm-api/internal/cache"
)

type record struct{ name string }

func newTestCache() (*cache.Cache, *cache.ManualClock) {
	clock := cache.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return cache.New(cache.DefaultTTL, clock), clock
}

func TestGetOrCompute_HitWithinTTL(t *testing.T) {
	c, clock := newTestCache()
	calls := 0
	compute := func() (*record, error) {
		calls++
		return &record{name: "cfo"}, nil
	}

	first, err := cache.GetOrCompute(c, "persona:t1:cfo", compute)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	clock.Advance(cache.DefaultTTL - time.Second)
	second, err := cache.GetOrCompute(c, "persona:t1:cfo", compute)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first != second {
		t.Error("expected the identical cached pointer within the TTL")
	}
	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}
}

func TestGetOrCompute_RecomputeAfterTTL(t *testing.T) {
	c, clock := newTestCache()
	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}

	if _, err := cache.GetOrCompute(c, "k", compute); err != nil {
		t.Fatal(err)
	}
	// Expiry is inclusive: an entry exactly TTL old is dead.
	clock.Advance(cache.DefaultTTL)
	v, err := cache.GetOrCompute(c, "k", compute)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 || v != 2 {
		t.Errorf("calls = %d, v = %d, want 2 and 2", calls, v)
	}

	// The recomputed value is live again.
	if _, err := cache.GetOrCompute(c, "k", compute); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d after refresh, want 2", calls)
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c, _ := newTestCache()
	boom := errors.New("store unavailable")

	_, err := cache.GetOrCompute(c, "k", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after failed compute, want 0", c.Len())
	}

	v, err := cache.GetOrCompute(c, "k", func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("GetOrCompute = %q, %v; want ok, nil", v, err)
	}
}

func TestClear(t *testing.T) {
	c, _ := newTestCache()
	calls := 0
	compute := func() (int, error) { calls++; return calls, nil }

	for _, k := range []string{"a", "b", "c"} {
		if _, err := cache.GetOrCompute(c, k, compute); err != nil {
			t.Fatal(err)
		}
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", c.Len())
	}
	if _, err := cache.GetOrCompute(c, "a", compute); err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := cache.New(0, nil)
	if c.TTL() != cache.DefaultTTL {
		t.Errorf("TTL = %s, want %s", c.TTL(), cache.DefaultTTL)
	}
}
