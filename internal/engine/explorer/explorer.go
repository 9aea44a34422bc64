// Package explorer coordinates ignored-file scans behind a TTL cache.
//
// The explorer is the only component that invokes the scanner. It serves
// fresh cache hits without touching the external process, coalesces
// concurrent identical requests into one in-flight scan, and caches resolved
// results with a bounded lifetime. Failures are never cached.
package explorer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// cacheEntry is a resolved scan with an absolute expiry. Staleness is
// detected lazily at lookup time; there is no background eviction timer.
type cacheEntry struct {
	result  *domain.ListResult
	expires time.Time
}

// scanHandle tracks one executing scan so Abort can cancel it.
type scanHandle struct {
	cancel context.CancelFunc
}

// Explorer implements the discovery coordinator.
type Explorer struct {
	scanner ports.Scanner
	logger  ports.Logger
	tracer  ports.Tracer
	clock   clockwork.Clock

	// group coalesces concurrent identical requests: one child process
	// serves every caller that shares a key.
	group singleflight.Group

	mu      sync.Mutex
	ttl     time.Duration
	entries map[domain.ScanKey]cacheEntry
	// gens guards against a superseded scan's late result repopulating the
	// cache: Abort bumps the generation, store compares it.
	gens    map[domain.ScanKey]uint64
	flights map[domain.ScanKey][]*scanHandle
}

// New creates an Explorer with the default TTL, a real clock, and a no-op
// tracer. One Explorer is constructed per workspace-manager lifetime; there
// is no process-wide cache state.
func New(scanner ports.Scanner, logger ports.Logger, tracer ports.Tracer) *Explorer {
	return &Explorer{
		scanner: scanner,
		logger:  logger,
		tracer:  tracer,
		clock:   clockwork.NewRealClock(),
		ttl:     domain.DefaultTTL,
		entries: make(map[domain.ScanKey]cacheEntry),
		gens:    make(map[domain.ScanKey]uint64),
		flights: make(map[domain.ScanKey][]*scanHandle),
	}
}

// WithClock injects a clock. Used by tests to control TTL expiry.
func (e *Explorer) WithClock(clock clockwork.Clock) *Explorer {
	e.clock = clock
	return e
}

// SetTTL updates the cache lifetime for subsequently resolved scans.
func (e *Explorer) SetTTL(ttl time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ttl > 0 {
		e.ttl = ttl
	}
}

// GetOrScan returns the ignored-file list for (root, maxItems), serving a
// fresh cached result when one exists, joining an in-flight scan for the
// same key when one is outstanding, and otherwise starting a new scan.
//
// Every caller sharing an in-flight scan observes the same *ListResult (or
// the same failure). Cancellation follows the initiating caller's ctx.
func (e *Explorer) GetOrScan(ctx context.Context, root string, maxItems int) (*domain.ListResult, error) {
	key := domain.ScanKey{Root: root, MaxItems: maxItems}

	ctx, span := e.tracer.Start(ctx, "explorer.get_or_scan")
	defer span.End()
	span.SetAttribute("root", root)
	span.SetAttribute("max_items", maxItems)

	if ctx.Err() != nil {
		return nil, zerr.Wrap(domain.ErrScanCancelled, "request already cancelled")
	}

	if res, ok := e.lookup(key); ok {
		span.SetAttribute("cache_hit", true)
		return res, nil
	}
	span.SetAttribute("cache_hit", false)

	v, err, _ := e.group.Do(key.ID(), func() (any, error) {
		// Double-check: the key may have resolved while this call queued
		// behind the flight that just finished.
		if res, ok := e.lookup(key); ok {
			return res, nil
		}

		gen := e.generation(key)

		scanCtx, cancel := context.WithCancel(ctx)
		handle := &scanHandle{cancel: cancel}
		e.track(key, handle)
		defer func() {
			e.untrack(key, handle)
			cancel()
		}()

		res, scanErr := e.scanner.Scan(scanCtx, root, maxItems)
		if scanErr != nil {
			// Never cached: the next request retries cleanly.
			return nil, scanErr
		}

		e.store(key, gen, res)
		return res, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := v.(*domain.ListResult)
	span.SetAttribute("files", len(res.Files))
	span.SetAttribute("truncated", res.Truncated)
	return res, nil
}

// Invalidate synchronously removes cached results for root. It does not
// cancel an in-flight scan for that root; callers that want only the newest
// scan to matter must Abort first (cancel-then-clear, never clear-then-cancel).
func (e *Explorer) Invalidate(root string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.entries {
		if key.Root == root {
			delete(e.entries, key)
		}
	}
}

// InvalidateAll removes every cached result.
func (e *Explorer) InvalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.entries)
}

// Abort cancels in-flight scans for root and discards their eventual
// results: a superseded scan can neither unblock later callers nor
// repopulate the cache, even if it completes successfully after the fact.
func (e *Explorer) Abort(root string) {
	e.mu.Lock()
	var cancels []context.CancelFunc
	for key, handles := range e.flights {
		if key.Root != root {
			continue
		}
		e.gens[key]++
		for _, h := range handles {
			cancels = append(cancels, h.cancel)
		}
		delete(e.flights, key)
		e.group.Forget(key.ID())
	}
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		e.logger.Info("aborted in-flight scan for " + root)
	}
}

// lookup returns a fresh cached result, deleting the entry lazily when its
// expiry has passed.
func (e *Explorer) lookup(key domain.ScanKey) (*domain.ListResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.entries[key]
	if !ok {
		return nil, false
	}
	if !e.clock.Now().Before(entry.expires) {
		delete(e.entries, key)
		return nil, false
	}
	return entry.result, true
}

// store caches a resolved result unless the key's generation moved on while
// the scan ran.
func (e *Explorer) store(key domain.ScanKey, gen uint64, res *domain.ListResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gens[key] != gen {
		// Superseded by Abort: discard.
		return
	}
	e.entries[key] = cacheEntry{
		result:  res,
		expires: e.clock.Now().Add(e.ttl),
	}
}

func (e *Explorer) generation(key domain.ScanKey) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gens[key]
}

func (e *Explorer) track(key domain.ScanKey, h *scanHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flights[key] = append(e.flights[key], h)
}

func (e *Explorer) untrack(key domain.ScanKey, h *scanHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	handles := e.flights[key]
	for i, cur := range handles {
		if cur == h {
			e.flights[key] = append(handles[:i], handles[i+1:]...)
			break
		}
	}
	if len(e.flights[key]) == 0 {
		delete(e.flights, key)
	}
}
