// Package services orchestrates record operations: taxonomy validation in
// front of the store, and summary caching behind it.
package services

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"tally/internal/cache"
	"tally/internal/catalog"
	"tally/internal/core"
)

// RecordStore is the persistence surface the ledger needs.
type RecordStore interface {
	Insert(ctx context.Context, kind core.Kind, r core.Record) (int64, error)
	Get(ctx context.Context, kind core.Kind, id int64) (core.Record, error)
	ListRange(ctx context.Context, kind core.Kind, rng core.DateRange) ([]core.Record, error)
	Update(ctx context.Context, kind core.Kind, id int64, u core.RecordUpdate) (core.Record, error)
	Delete(ctx context.Context, kind core.Kind, id int64) error
	SummarizeRange(ctx context.Context, kind core.Kind, rng core.DateRange, category string) (map[string]int64, error)
	Close() error
}

// Options tunes the summary cache.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// LedgerService validates records against the catalog, delegates to the
// store and keeps summaries cached until the next write of the same kind.
type LedgerService struct {
	store     RecordStore
	catalog   *catalog.Catalog
	summaries *cache.LRUCache[core.Summary]
}

func NewLedgerService(store RecordStore, cat *catalog.Catalog, opts Options) *LedgerService {
	if opts.CacheSize < 1 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &LedgerService{
		store:     store,
		catalog:   cat,
		summaries: cache.NewLRUCache[core.Summary](opts.CacheSize, opts.CacheTTL),
	}
}

// RegisterCaches adds the service's caches to a cleanup manager.
func (s *LedgerService) RegisterCaches(m *cache.Manager) {
	m.Register(s.summaries)
}

// Add validates and persists a new record, returning its id.
func (s *LedgerService) Add(ctx context.Context, kind core.Kind, r core.Record) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	if err := s.validateTaxonomy(kind, r.Category, r.Subcategory); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, kind, r)
	if err != nil {
		return 0, err
	}

	s.invalidateSummaries(ctx, kind)
	return id, nil
}

// List returns the records inside the inclusive range, ordered by date
// then id.
func (s *LedgerService) List(ctx context.Context, kind core.Kind, rng core.DateRange) ([]core.Record, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListRange(ctx, kind, rng)
}

// Edit applies a partial update. The resulting category and subcategory
// pair must be valid as stored, so edits that would leave a subcategory
// orphaned under a new category are rejected.
func (s *LedgerService) Edit(ctx context.Context, kind core.Kind, id int64, u core.RecordUpdate) (core.Record, error) {
	if err := u.Validate(); err != nil {
		return core.Record{}, err
	}

	current, err := s.store.Get(ctx, kind, id)
	if err != nil {
		return core.Record{}, err
	}

	category := current.Category
	if u.Category != nil {
		category = *u.Category
	}
	subcategory := current.Subcategory
	if u.Subcategory != nil {
		subcategory = *u.Subcategory
	}
	if err := s.validateTaxonomy(kind, category, subcategory); err != nil {
		if u.Category != nil && u.Subcategory == nil && subcategory != "" {
			return core.Record{}, core.Validationf(
				"subcategory %q does not belong to category %q: update the subcategory too", subcategory, category)
		}
		return core.Record{}, err
	}

	updated, err := s.store.Update(ctx, kind, id, u)
	if err != nil {
		return core.Record{}, err
	}

	s.invalidateSummaries(ctx, kind)
	return updated, nil
}

// Delete removes a record permanently.
func (s *LedgerService) Delete(ctx context.Context, kind core.Kind, id int64) error {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.invalidateSummaries(ctx, kind)
	return nil
}

// Summarize returns per-category totals over the range, optionally
// filtered to one category. Results are cached per kind until the next
// write of that kind.
func (s *LedgerService) Summarize(ctx context.Context, kind core.Kind, rng core.DateRange, category string) (core.Summary, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if category != "" && !s.catalog.HasCategory(kind, category) {
		return nil, core.Validationf("unknown %s category %q", kind, category)
	}

	key := summaryKey(kind, rng, category)
	if cached, ok := s.summaries.Get(key); ok {
		slog.DebugContext(ctx, "Summary served from cache", "kind", kind.String(), "key", key)
		return maps.Clone(cached), nil
	}

	totals, err := s.store.SummarizeRange(ctx, kind, rng, category)
	if err != nil {
		return nil, err
	}

	summary := core.SummaryFromCents(totals)
	s.summaries.Set(key, summary)
	return maps.Clone(summary), nil
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *LedgerService) validateTaxonomy(kind core.Kind, category, subcategory string) error {
	if !s.catalog.HasCategory(kind, category) {
		return core.Validationf("unknown %s category %q", kind, category)
	}
	if subcategory != "" && !s.catalog.HasSubcategory(kind, category, subcategory) {
		return core.Validationf("unknown subcategory %q for %s category %q", subcategory, kind, category)
	}
	return nil
}

func (s *LedgerService) invalidateSummaries(ctx context.Context, kind core.Kind) {
	if removed := s.summaries.DeletePrefix(kind.String() + "|"); removed > 0 {
		slog.DebugContext(ctx, "Summary cache invalidated", "kind", kind.String(), "entries", removed)
	}
}

func summaryKey(kind core.Kind, rng core.DateRange, category string) string {
	return kind.String() + "|" + rng.Start.String() + "|" + rng.End.String() + "|" + category
}
