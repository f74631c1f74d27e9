/*
Package lifecycle implements the shared life cycle of the per-account caches.

A Cache follows the session identity: when an identity becomes present it loads
from the backend (creating the backing resource once if it is missing), and when
the identity changes it resets synchronously. Every load captures the identity
Snapshot it started under and is applied only if that snapshot is still current,
so a response that resolves after a logout, or after another account signed in,
is discarded. Within one session loads are numbered, and a load that settles after
a newer one (or after a Patch) is discarded as well.
*/
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"habitpet/internal/app/user"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

// Snapshot is the session identity at one point in time. Epoch increases on every
// identity change, so two snapshots with the same Epoch describe the same session.
type Snapshot struct {
	Identity user.Identity
	Present  bool
	Epoch    uint64
}

// Source exposes the current identity snapshot.
type Source interface {
	Current() Snapshot
}

// Listener is notified after every identity change.
type Listener interface {
	OnIdentityChange(Snapshot)
}

// Options parametrize a Cache.
type Options[T any] struct {
	// Name tags log lines.
	Name string

	// Fetch loads the authoritative value.
	Fetch func(ctx context.Context) (T, error)

	// Create makes the default backing resource. Optional; when set, a not-found
	// Fetch is followed by one Create and one more Fetch.
	Create func(ctx context.Context) error

	// Normalize runs on every fetched value before it is stored. Optional.
	Normalize func(T) T
}

// Cache holds one backend-owned value for the current session.
type Cache[T any] struct {
	mu      sync.Mutex
	value   T
	present bool
	epoch   uint64
	seq     uint64 // last load started
	applied uint64 // newest load or patch whose outcome is in value
	loading int
	lastErr error

	source Source
	opts   Options[T]

	inflight sync.WaitGroup
	logger   zerolog.Logger
}

func New[T any](source Source, opts Options[T]) *Cache[T] {
	if opts.Fetch == nil {
		panic(fmt.Sprintf("lifecycle: cache %q has no fetch function", opts.Name))
	}
	return &Cache[T]{
		source: source,
		opts:   opts,
		logger: logx.Component(opts.Name),
	}
}

// OnIdentityChange resets the cache and, if an identity is present, starts a
// background load for it. Snapshots older than the last one seen are ignored.
func (c *Cache[T]) OnIdentityChange(s Snapshot) {
	c.mu.Lock()
	if s.Epoch < c.epoch {
		c.mu.Unlock()
		return
	}
	c.epoch = s.Epoch
	c.clearLocked()
	c.mu.Unlock()

	if !s.Present {
		return
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.load(context.Background(), s)
	}()
}

// Refresh re-fetches the value for the current identity and reports whether a
// fresh value was stored. On failure the previous value is kept.
func (c *Cache[T]) Refresh(ctx context.Context) bool {
	s := c.source.Current()
	if !s.Present {
		return false
	}
	return c.load(ctx, s)
}

// Get returns the cached value. ok is false while nothing is loaded.
func (c *Cache[T]) Get() (value T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.present
}

// Patch applies fn to the cached value in place. It is a no-op while nothing is
// loaded. Loads already in flight are discarded; the next fetch overwrites the
// patch.
func (c *Cache[T]) Patch(fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.present {
		return false
	}
	c.value = fn(c.value)
	c.applied = c.seq
	return true
}

// Reset empties the cache without waiting for in-flight loads.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()
}

// Loading reports whether a load is in flight.
func (c *Cache[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// LastError returns the error of the last failed load for this session, if any.
func (c *Cache[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Wait blocks until background loads started by OnIdentityChange have finished.
func (c *Cache[T]) Wait() {
	c.inflight.Wait()
}

func (c *Cache[T]) clearLocked() {
	var zero T
	c.value = zero
	c.present = false
	c.lastErr = nil
}

func (c *Cache[T]) current(s Snapshot) bool {
	return s.Epoch == c.epoch && c.source.Current().Epoch == s.Epoch
}

func (c *Cache[T]) load(ctx context.Context, s Snapshot) bool {
	c.mu.Lock()
	c.loading++
	c.seq++
	seq := c.seq
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading--
		c.mu.Unlock()
	}()

	value, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(s) {
		c.logger.Debug().
			Uint64("started_epoch", s.Epoch).
			Uint64("current_epoch", c.epoch).
			Msg("Discarding result for a previous session")
		return false
	}
	if seq <= c.applied {
		c.logger.Debug().
			Uint64("load", seq).
			Uint64("applied", c.applied).
			Msg("Discarding result overtaken by a newer load")
		return false
	}
	c.applied = seq

	if err != nil {
		c.lastErr = err
		logFailure(c.logger, "load", err)
		return false
	}

	if c.opts.Normalize != nil {
		value = c.opts.Normalize(value)
	}
	c.value = value
	c.present = true
	c.lastErr = nil
	return true
}

func (c *Cache[T]) fetch(ctx context.Context) (T, error) {
	value, err := c.opts.Fetch(ctx)
	if err == nil || c.opts.Create == nil || !errs.IsNotFound(err) {
		return value, err
	}

	c.logger.Info().Msg("Backing resource missing, creating default")
	if err := c.opts.Create(ctx); err != nil {
		var zero T
		return zero, fmt.Errorf("create default: %w", err)
	}
	return c.opts.Fetch(ctx)
}
