package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// CandidateFinder supplies the filtered discovery stage output
type CandidateFinder interface {
	Find(ctx context.Context) ([]contracts.Candidate, contracts.FunnelStats, error)
}

// Pipeline coordinates the discover -> enrich -> score -> select flow
// ⭐ SSOT: 流水线编排只在这里
type Pipeline struct {
	finder   CandidateFinder
	enricher *Enricher
	scorer   *Scorer
	selector *Selector

	logger *logger.Logger
	now    func() time.Time
}

// NewPipeline creates a new recommendation pipeline
func NewPipeline(
	finder CandidateFinder,
	enricher *Enricher,
	scorer *Scorer,
	selector *Selector,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		finder:   finder,
		enricher: enricher,
		scorer:   scorer,
		selector: selector,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes one full recommendation cycle. A run that selects zero
// stocks is still a successful run; only a total discovery failure is
// an error.
func (p *Pipeline) Run(ctx context.Context) (*contracts.RunResult, error) {
	start := p.now()
	p.logger.Info("Starting hot stock recommendation run")

	candidates, stats, err := p.finder.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidate discovery: %w", err)
	}

	enriched, droppedBy := p.enricher.Enrich(ctx, candidates)
	stats.Enriched = len(enriched)
	if stats.DroppedBy == nil {
		stats.DroppedBy = make(map[string]int)
	}
	for reason, n := range droppedBy {
		stats.DroppedBy[reason] += n
	}

	recommendations := p.selector.Select(p.scorer.Score(enriched))
	stats.Ranked = len(recommendations)

	result := &contracts.RunResult{
		Date:            start,
		Stats:           stats,
		Recommendations: recommendations,
		Duration:        p.now().Sub(start),
	}

	p.logger.WithFields(map[string]interface{}{
		"merged":   stats.Merged,
		"eligible": stats.Eligible,
		"enriched": stats.Enriched,
		"ranked":   stats.Ranked,
		"duration": result.Duration.String(),
	}).Info("Recommendation run completed")

	return result, nil
}
