package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

func rec(symbol string, score float64) contracts.Recommendation {
	return contracts.Recommendation{
		EnrichedCandidate: contracts.EnrichedCandidate{
			Candidate: contracts.NewCandidate(contracts.StockInfo{Symbol: symbol}, contracts.RankingGainers),
		},
		Score: score,
	}
}

func newTestSelector(minScore float64, topN int) *Selector {
	return NewSelector(config.HotStockConfig{MinScore: minScore, TopN: topN}, logger.NewNop())
}

func TestSelectOrdersAndTruncates(t *testing.T) {
	s := newTestSelector(60, 3)

	out := s.Select([]contracts.Recommendation{
		rec("600001", 75), rec("600002", 92), rec("600003", 61),
		rec("600004", 59), rec("600005", 88),
	})

	require.Len(t, out, 3)
	assert.Equal(t, "600002", out[0].Stock.Symbol)
	assert.Equal(t, "600005", out[1].Stock.Symbol)
	assert.Equal(t, "600001", out[2].Stock.Symbol)
}

func TestSelectTieBreaksBySymbol(t *testing.T) {
	s := newTestSelector(60, 5)

	out := s.Select([]contracts.Recommendation{
		rec("600300", 80), rec("600100", 80), rec("600200", 80),
	})

	require.Len(t, out, 3)
	assert.Equal(t, "600100", out[0].Stock.Symbol)
	assert.Equal(t, "600200", out[1].Stock.Symbol)
	assert.Equal(t, "600300", out[2].Stock.Symbol)
}

func TestSelectIsDeterministic(t *testing.T) {
	s := newTestSelector(60, 5)

	input := []contracts.Recommendation{
		rec("600001", 70), rec("600002", 70), rec("600003", 85),
		rec("600004", 70), rec("600005", 62),
	}

	first := s.Select(append([]contracts.Recommendation{}, input...))
	for i := 0; i < 5; i++ {
		again := s.Select(append([]contracts.Recommendation{}, input...))
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Stock.Symbol, again[j].Stock.Symbol)
		}
	}
}

func TestSelectEmptyWhenNothingQualifies(t *testing.T) {
	s := newTestSelector(60, 5)

	out := s.Select([]contracts.Recommendation{rec("600001", 40), rec("600002", 59.9)})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSelectCutoffIsInclusive(t *testing.T) {
	s := newTestSelector(60, 5)

	out := s.Select([]contracts.Recommendation{rec("600001", 60)})
	assert.Len(t, out, 1)
}
