package services

import (
	"context"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/cache"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ReportService computes totals reports. Results are cached until the
// next write through any service of the same Ledger.
type ReportService struct {
	people       storage.PersonRepository
	categories   storage.CategoryRepository
	transactions storage.TransactionRepository
	cache        *cache.LRUCache[core.TotalsReport]
	logger       *log.Logger
}

func (s *ReportService) TotalsByPerson(ctx context.Context) (core.TotalsReport, error) {
	return s.Totals(ctx, core.ReportByPerson)
}

func (s *ReportService) TotalsByCategory(ctx context.Context) (core.TotalsReport, error) {
	return s.Totals(ctx, core.ReportByCategory)
}

// Totals returns the report of the given kind. Callers must treat the
// returned rows as read-only since they may be shared through the cache.
func (s *ReportService) Totals(ctx context.Context, kind core.ReportKind) (core.TotalsReport, error) {
	if !kind.Valid() {
		return core.TotalsReport{}, fmt.Errorf("unknown report kind %q", kind)
	}
	if s.cache != nil {
		if r, ok := s.cache.Get(string(kind)); ok {
			return r, nil
		}
	}
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation()
	}

	report, err := s.compute(ctx, kind)
	if err != nil {
		return core.TotalsReport{}, err
	}

	if s.cache != nil && !s.cache.SetIfGeneration(string(kind), report, gen) {
		s.logger.DebugContext(ctx, "Report changed while computing, not cached", log.FieldReportKind, kind)
	}
	return report, nil
}

// compute loads the grouping entities and the transactions concurrently.
func (s *ReportService) compute(ctx context.Context, kind core.ReportKind) (core.TotalsReport, error) {
	var (
		people     []core.Person
		categories []core.Category
		txs        []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if kind == core.ReportByPerson {
			people, err = s.people.ListPeople(gctx)
		} else {
			categories, err = s.categories.ListCategories(gctx)
		}
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.TotalsReport{}, fmt.Errorf("load %s report: %w", kind, err)
	}

	if kind == core.ReportByPerson {
		return core.TotalsByPerson(people, txs), nil
	}
	return core.TotalsByCategory(categories, txs), nil
}

// Invalidate drops cached reports.
func (s *ReportService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// CacheStats reports cache counters; zero when caching is disabled.
func (s *ReportService) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

// CleanExpired drops expired cached reports. It makes ReportService a
// cache.Cleaner.
func (s *ReportService) CleanExpired() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.CleanExpired()
}
