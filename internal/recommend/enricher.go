package recommend

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Enricher attaches price history and trend analysis to candidates
// using a bounded worker pool. A candidate that cannot be enriched is
// dropped with a reason; it never fails the batch.
type Enricher struct {
	gateway  contracts.MarketDataGateway
	analyzer contracts.TrendAnalyzer
	config   config.HotStockConfig
	logger   *logger.Logger
}

// NewEnricher creates a new candidate enricher
func NewEnricher(
	gateway contracts.MarketDataGateway,
	analyzer contracts.TrendAnalyzer,
	cfg config.HotStockConfig,
	log *logger.Logger,
) *Enricher {
	return &Enricher{
		gateway:  gateway,
		analyzer: analyzer,
		config:   cfg,
		logger:   log,
	}
}

type enrichResult struct {
	index      int
	enriched   contracts.EnrichedCandidate
	dropReason string
}

// Enrich processes candidates concurrently and returns the survivors in
// input order, plus drop counts keyed by reason.
func (e *Enricher) Enrich(ctx context.Context, candidates []contracts.Candidate) ([]contracts.EnrichedCandidate, map[string]int) {
	dropped := make(map[string]int)
	if len(candidates) == 0 {
		return nil, dropped
	}

	workers := e.config.MaxConcurrent
	if workers <= 0 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	e.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"workers":    workers,
	}).Info("Starting candidate enrichment")

	candCh := make(chan enrichResult, len(candidates))
	resultCh := make(chan enrichResult, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range candCh {
				resultCh <- e.enrichOne(ctx, job)
			}
		}()
	}

	for i, cand := range candidates {
		candCh <- enrichResult{
			index:    i,
			enriched: contracts.EnrichedCandidate{Candidate: cand},
		}
	}
	close(candCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	kept := make([]enrichResult, 0, len(candidates))
	for res := range resultCh {
		if res.dropReason != "" {
			dropped[res.dropReason]++
			continue
		}
		kept = append(kept, res)
	}

	// Workers finish out of order; restore the input ordering
	sort.Slice(kept, func(i, j int) bool { return kept[i].index < kept[j].index })

	out := make([]contracts.EnrichedCandidate, len(kept))
	for i, res := range kept {
		out[i] = res.enriched
	}

	e.logger.WithFields(map[string]interface{}{
		"enriched": len(out),
		"dropped":  dropped,
	}).Info("Candidate enrichment completed")

	return out, dropped
}

// enrichOne fetches history and runs trend analysis for one candidate,
// bounded by the per-candidate timeout.
func (e *Enricher) enrichOne(ctx context.Context, job enrichResult) enrichResult {
	symbol := job.enriched.Stock.Symbol

	unitCtx := ctx
	if e.config.EnrichTimeout > 0 {
		var cancel context.CancelFunc
		unitCtx, cancel = context.WithTimeout(ctx, e.config.EnrichTimeout)
		defer cancel()
	}

	bars, err := e.gateway.History(unitCtx, symbol, e.config.HistoryDays)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Warn("History fetch failed")
		job.dropReason = "history_failed"
		return job
	}

	if len(bars) < e.config.MinHistoryDays {
		e.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"bars":   len(bars),
			"need":   e.config.MinHistoryDays,
		}).Debug("Insufficient history")
		job.dropReason = "insufficient_history"
		return job
	}

	trend, err := e.analyzer.Analyze(symbol, bars)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Warn("Trend analysis failed")
		job.dropReason = "analysis_failed"
		return job
	}

	job.enriched.Trend = trend
	job.enriched.Bars = bars
	return job
}
