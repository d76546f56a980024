// Package ipfs resolves content addresses into JSON documents by fetching
// from public HTTP gateways with fall-through, and memoizes results in a
// session cache.
//
// The resolver is deliberately single-pass: one attempt per gateway per
// call, no internal retries. Callers wanting resilience re-invoke
// [Resolver.Resolve]; a previous failure is never cached, so a later call
// can succeed once a gateway recovers.
package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultAttemptTimeout bounds each individual gateway attempt.
const DefaultAttemptTimeout = 5 * time.Second

// maxDocumentBytes caps how much of a gateway response is read. Documents
// are small JSON blobs; anything larger is not ours.
const maxDocumentBytes = 1 << 20

// Resolver turns content addresses into parsed JSON documents.
//
// Concurrent Resolve calls for the same address are coalesced into one
// underlying fetch, so a cache-miss storm costs a single round trip.
type Resolver struct {
	gateways       []string
	client         *http.Client
	cache          Cache
	attemptTimeout time.Duration
	logger         *slog.Logger
	flight         singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGateways replaces the gateway list. Gateways are tried in order.
func WithGateways(gateways ...string) Option {
	return func(r *Resolver) {
		if len(gateways) > 0 {
			r.gateways = gateways
		}
	}
}

// WithHTTPClient sets the HTTP client used for gateway requests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithCache sets the session cache. If unset, an unbounded in-memory
// cache is used. Pass a bounded cache for long-lived processes.
func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithAttemptTimeout bounds each gateway attempt. There is no overall
// deadline; wrap the calling context for one.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithLogger sets a logger. If nil, attempt failures are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver over the given gateways, defaulting to
// [DefaultGateways], a shared HTTP client, and an unbounded memory cache.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		gateways:       DefaultGateways,
		client:         http.DefaultClient,
		attemptTimeout: DefaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	return r
}

// Cache returns the resolver's session cache.
func (r *Resolver) Cache() Cache {
	return r.cache
}

func (r *Resolver) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Resolve returns the document stored at a content address.
//
// The cache is consulted first. On a miss, each gateway is tried once in
// order with a per-attempt timeout; the first well-formed JSON response is
// cached and returned. If every gateway fails, Resolve returns an
// [*ExhaustedError] carrying per-gateway diagnostics.
func (r *Resolver) Resolve(ctx context.Context, address string) (json.RawMessage, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}

	// Fast path, avoids singleflight overhead.
	if doc, ok := r.cache.Get(address); ok {
		r.log().Debug("cache hit", "address", address)
		return doc, nil
	}

	// Coalesce concurrent resolutions of the same address into one fetch.
	ch := r.flight.DoChan(address, func() (any, error) {
		// Another caller may have populated the cache while we waited
		// for the flight slot.
		if doc, ok := r.cache.Get(address); ok {
			return doc, nil
		}

		doc, err := r.fetch(ctx, address)
		if err != nil {
			return nil, err
		}
		r.cache.Put(address, doc)
		return doc, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetch performs one pass over the gateway list.
func (r *Resolver) fetch(ctx context.Context, address string) (json.RawMessage, error) {
	attempts := make([]Attempt, 0, len(r.gateways))
	for _, base := range r.gateways {
		doc, err := r.attempt(ctx, base, address)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log().Debug("gateway attempt failed", "gateway", base, "address", address, "error", err)
		attempts = append(attempts, Attempt{Gateway: base, Err: err})
	}
	return nil, &ExhaustedError{Address: address, Attempts: attempts}
}

// attempt fetches a document from one gateway, bounded by the per-attempt
// timeout. The response must be valid JSON to count as a success.
func (r *Resolver) attempt(ctx context.Context, base, address string) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, gatewayEndpoint(base, address), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("gateway returned unparseable content")
	}
	return json.RawMessage(body), nil
}
