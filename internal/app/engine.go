// Package app provides the leaderboard engine that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/podium/internal/adapters/cache"
	"github.com/okian/podium/internal/adapters/storage"
	"github.com/okian/podium/internal/domain/integrity"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/registry"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const defaultCapacity = 100

// Engine orchestrates score submissions: registry gate, proof check,
// admission policy, re-ranking, truncation, persistence, cache refresh.
//
// Tie-break among equal scores is intentionally just "stable": an
// earlier-admitted entry keeps its position ahead of a later tying one.
// No ordering on name or time is promised.
type Engine struct {
	registry *registry.Registry
	store    storage.Store
	cache    *cache.RankingCache
	verifier integrity.Verifier

	capacity  int
	stampTime bool
	now       func() time.Time

	// locks serializes the load/merge/sort/truncate/persist sequence
	// per table. The map is built once from the registry and never
	// mutated, so lookups need no extra synchronization. Submissions to
	// different tables do not contend.
	locks map[string]*sync.Mutex

	log logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCapacity sets the maximum number of retained entries per table.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithVerifier sets the submission proof checker.
func WithVerifier(v integrity.Verifier) Option {
	return func(e *Engine) {
		if v != nil {
			e.verifier = v
		}
	}
}

// WithTimestamps makes the engine stamp admitted entries with the
// current unix time. Must match the store's column schema.
func WithTimestamps(enabled bool) Option {
	return func(e *Engine) {
		e.stampTime = enabled
	}
}

// WithClock sets the time source used for stamping entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New constructs an Engine over the given registry, store and cache.
func New(reg *registry.Registry, store storage.Store, rc *cache.RankingCache, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		store:    store,
		cache:    rc,
		verifier: integrity.Disabled(),
		capacity: defaultCapacity,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex, reg.Len()),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logger.Get()
	}
	for _, name := range reg.Names() {
		e.locks[name] = &sync.Mutex{}
	}
	return e
}

// Tables returns the configured table ids in configuration order.
func (e *Engine) Tables() []string {
	return e.registry.Names()
}

// List returns the current sorted leaderboard for table. The only side
// effect is lazy creation of the table file on first access.
func (e *Engine) List(ctx context.Context, table string) ([]model.Entry, error) {
	table = registry.Normalize(table)
	if !e.registry.Contains(table) {
		return nil, ErrUnknownTable
	}
	return e.cache.GetOrLoad(ctx, table)
}

// Submit runs the admission flow for a candidate entry and returns the
// resulting leaderboard. admitted reports whether the candidate was
// retained; a losing candidate is a normal outcome, not an error.
func (e *Engine) Submit(ctx context.Context, table string, cand model.Entry, proof string) (entries []model.Entry, admitted bool, err error) {
	table = registry.Normalize(table)
	if !e.registry.Contains(table) {
		return nil, false, ErrUnknownTable
	}
	if strings.TrimSpace(cand.Name) == "" {
		return nil, false, ErrInvalidEntry
	}
	if !e.verifier.Verify(cand.Name, cand.Score, proof) {
		metrics.RecordProofFailure()
		e.log.Warn(ctx, "submission rejected: bad proof",
			logger.String("table", table),
			logger.String("player", cand.Name),
		)
		return nil, false, ErrProofMismatch
	}

	mu := e.locks[table]
	mu.Lock()
	defer mu.Unlock()

	entries, err = e.cache.GetOrLoad(ctx, table)
	if err != nil {
		return nil, false, err
	}

	// The cutoff score is always the minimum of the loaded list. The
	// zero value is never consulted for a non-empty table, and an empty
	// table cannot be at capacity, so any score is admitted there.
	var lowest int64
	if len(entries) > 0 {
		lowest = entries[len(entries)-1].Score
	}
	if len(entries) >= e.capacity && cand.Score <= lowest {
		metrics.RecordSubmissionRejected(table)
		e.log.Debug(ctx, "submission did not qualify",
			logger.String("table", table),
			logger.String("player", cand.Name),
			logger.Int64("score", cand.Score),
			logger.Int64("cutoff", lowest),
		)
		return entries, false, nil
	}

	if e.stampTime {
		cand.RecordedAt = e.now().Unix()
	} else {
		cand.RecordedAt = 0
	}
	entries = append(entries, cand)
	cache.SortDescending(entries)
	if len(entries) > e.capacity {
		entries = entries[:e.capacity]
	}

	if err := e.store.Save(ctx, table, entries); err != nil {
		// Disk state is authoritative; drop the memoized view rather
		// than guess which snapshot survived.
		e.cache.Invalidate(table)
		return nil, false, err
	}
	e.cache.Put(table, entries)

	metrics.RecordSubmissionAccepted(table)
	metrics.UpdateTableEntries(table, len(entries))
	e.log.Info(ctx, "submission admitted",
		logger.String("table", table),
		logger.String("player", cand.Name),
		logger.Int64("score", cand.Score),
		logger.Int("entries", len(entries)),
	)
	return entries, true, nil
}
