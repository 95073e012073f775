package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
)

// DefaultChartWindowMonths is the chart window used when none is configured.
const DefaultChartWindowMonths = 10

// StatsService computes dashboard stats and chart data.
type StatsService struct {
	store       RecordStore
	cache       StatsCache
	metrics     metrics.Recorder
	chartMonths int
	now         func() time.Time
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(store RecordStore, cache StatsCache, recorder metrics.Recorder, chartMonths int) *StatsService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if chartMonths <= 0 {
		chartMonths = DefaultChartWindowMonths
	}
	return &StatsService{
		store:       store,
		cache:       cache,
		metrics:     recorder,
		chartMonths: chartMonths,
		now:         time.Now,
	}
}

// Summary returns totals, balance, extremes and latest records of the caller.
func (s *StatsService) Summary(ctx context.Context, caller *model.Caller) (*model.Stats, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	// gen is only trusted when the cache answered.
	var (
		gen      uint64
		genKnown bool
	)
	if s.cache != nil {
		cached, cachedGen, err := s.cache.GetStats(ctx, caller.ID)
		if err == nil && cached != nil {
			s.metrics.IncStatsCacheHit()
			return cached, nil
		}
		// Redis errors fall through to the store
		s.metrics.IncStatsCacheMiss()
		gen, genKnown = cachedGen, err == nil
	}

	var incomes, expenses []*model.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListRecordsByOwner(gctx, model.KindIncome, caller.ID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListRecordsByOwner(gctx, model.KindExpense, caller.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	stats := model.Summarize(incomes, expenses)

	if genKnown {
		// Skipped when a record changed during the load; a failed write only
		// costs a later miss.
		_, _ = s.cache.SetStats(ctx, caller.ID, gen, stats)
	}

	return stats, nil
}

// Chart returns the caller's records dated within the chart window,
// [today - N months, today] inclusive.
func (s *StatsService) Chart(ctx context.Context, caller *model.Caller) (*model.Chart, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	to := model.TruncateDate(s.now().UTC())
	from := model.MonthsBefore(to, s.chartMonths)

	chart := &model.Chart{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chart.Incomes, err = s.store.ListRecordsByOwnerBetween(gctx, model.KindIncome, caller.ID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		chart.Expenses, err = s.store.ListRecordsByOwnerBetween(gctx, model.KindExpense, caller.ID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load chart records: %w", err)
	}

	return chart, nil
}
