// Package gateway provides the single shared access path to the external
// catalog API: a TTL response cache, a FIFO-ordered concurrency gate, a rate
// limiter, and a circuit breaker that converts sustained upstream failure
// into a terminal error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"movierec/internal/logger"
)

// ErrUnavailable is returned when the catalog is considered down (circuit
// breaker open). It is the only error that should abort a whole request.
var ErrUnavailable = errors.New("catalog unavailable")

// Config tunes the gateway. Zero values fall back to defaults.
type Config struct {
	MaxConcurrent  int           // concurrent in-flight calls, default 5
	CacheTTL       time.Duration // default 10 minutes
	CacheCapacity  int           // default 500 entries
	RequestTimeout time.Duration // per-call timeout, default 15s
	RatePerSecond  float64       // outbound pacing, default 35
	RateBurst      int           // default 5
}

// Gateway is the bounded-concurrency, cached HTTP fetch layer. One instance
// is shared by every caller; all mutable state lives behind its locks.
type Gateway struct {
	httpClient *http.Client
	cache      *ttlCache
	gate       *semaphore
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// New creates a gateway with the given configuration.
func New(cfg Config) *Gateway {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 500
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 35
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}

	g := &Gateway{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cache:      newTTLCache(cfg.CacheTTL, cfg.CacheCapacity),
		gate:       newSemaphore(cfg.MaxConcurrent),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
	g.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error("gateway breaker %s: %s -> %s", name, from, to)
		},
	})
	return g
}

// Get fetches the URL, serving from cache when a live entry exists. Cache
// keys never contain the API credential. Catalog fetch failures are returned
// as-is and are not retried here; callers degrade softly. An open breaker
// yields ErrUnavailable.
func (g *Gateway) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := NormalizeKey(rawURL)
	if body, ok := g.cache.Get(key); ok {
		logger.Debug("gateway cache hit: %s", key)
		return body, nil
	}

	if err := g.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer g.gate.Release()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := g.breaker.Execute(func() ([]byte, error) {
		return g.do(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	g.cache.Set(key, body)
	return body, nil
}

func (g *Gateway) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog api error (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// NormalizeKey strips the API credential from a request URL and sorts the
// remaining query parameters so equivalent requests share one cache entry.
func NormalizeKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Del("api_key")
	u.RawQuery = q.Encode() // Encode sorts keys
	return u.String()
}
