package recommend

import (
	"sort"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Selector applies the score cutoff and keeps the top N recommendations.
// An empty selection is a valid outcome, not an error.
type Selector struct {
	config config.HotStockConfig
	logger *logger.Logger
}

// NewSelector creates a new ranking selector
func NewSelector(cfg config.HotStockConfig, log *logger.Logger) *Selector {
	return &Selector{
		config: cfg,
		logger: log,
	}
}

// Select filters by min score, orders deterministically and truncates to
// the configured top N.
func (s *Selector) Select(recs []contracts.Recommendation) []contracts.Recommendation {
	qualified := make([]contracts.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Score >= s.config.MinScore {
			qualified = append(qualified, r)
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].Less(qualified[j])
	})

	if len(qualified) > s.config.TopN {
		qualified = qualified[:s.config.TopN]
	}

	s.logger.WithFields(map[string]interface{}{
		"scored":    len(recs),
		"qualified": len(qualified),
		"min_score": s.config.MinScore,
		"top_n":     s.config.TopN,
	}).Info("Ranking selection completed")

	return qualified
}
