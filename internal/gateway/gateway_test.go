package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGatewayCacheRoundTrip(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	g := New(Config{CacheTTL: time.Minute})
	ctx := context.Background()
	url := upstream.URL + "/movie/popular?api_key=secret&page=1"

	first, err := g.Get(ctx, url)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := g.Get(ctx, url)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("cached fetch returned different body")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestGatewayCacheExpiryTriggersRefetch(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	g := New(Config{CacheTTL: time.Minute})
	now := time.Now()
	g.cache.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := g.Get(ctx, upstream.URL+"/x"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := g.Get(ctx, upstream.URL+"/x"); err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 upstream calls after expiry, got %d", got)
	}
}

func TestGatewayConcurrencyCap(t *testing.T) {
	var inflight, maxInflight int32
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inflight, 1)
		for {
			prev := atomic.LoadInt32(&maxInflight)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxInflight, prev, cur) {
				break
			}
		}
		<-release
		atomic.AddInt32(&inflight, -1)
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	g := New(Config{MaxConcurrent: 5, RatePerSecond: 1000, RateBurst: 10})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Distinct URLs so the cache cannot short-circuit.
			if _, err := g.Get(ctx, upstream.URL+"/item/"+string(rune('a'+n))); err != nil {
				t.Errorf("fetch %d failed: %v", n, err)
			}
		}(i)
	}

	// Wait until the gate is saturated, then verify the sixth call is
	// still queued.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&inflight) < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&inflight); got != 5 {
		t.Fatalf("expected exactly 5 calls in flight, got %d", got)
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&maxInflight); got != 5 {
		t.Errorf("expected max 5 concurrent upstream calls, got %d", got)
	}
}

func TestNormalizeKeyStripsCredential(t *testing.T) {
	key := NormalizeKey("https://api.example.com/3/movie/popular?page=2&api_key=secret")
	if key != "https://api.example.com/3/movie/popular?page=2" {
		t.Errorf("unexpected normalized key: %s", key)
	}

	// Equivalent requests with different parameter order share a key.
	a := NormalizeKey("https://api.example.com/3/discover/movie?with_genres=28&page=1&api_key=k")
	b := NormalizeKey("https://api.example.com/3/discover/movie?api_key=k2&page=1&with_genres=28")
	if a != b {
		t.Errorf("expected identical keys, got %q and %q", a, b)
	}
}

func TestGatewayUpstreamErrorFailsSoft(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	g := New(Config{})
	if _, err := g.Get(context.Background(), upstream.URL+"/broken"); err == nil {
		t.Fatal("expected error from failing upstream")
	}
}
