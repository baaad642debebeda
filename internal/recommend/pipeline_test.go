package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

type stubFinder struct {
	candidates []contracts.Candidate
	err        error
}

func (f *stubFinder) Find(ctx context.Context) ([]contracts.Candidate, contracts.FunnelStats, error) {
	stats := contracts.FunnelStats{
		FilteredBy: make(map[string]int),
		DroppedBy:  make(map[string]int),
	}
	if f.err != nil {
		return nil, stats, f.err
	}
	stats.Merged = len(f.candidates)
	stats.Eligible = len(f.candidates)
	return f.candidates, stats, nil
}

func newTestPipeline(finder CandidateFinder, gw contracts.MarketDataGateway) *Pipeline {
	cfg := config.HotStockConfig{
		MaxConcurrent:  2,
		HistoryDays:    60,
		MinHistoryDays: 30,
		TopN:           5,
		MinScore:       60,
		Weight:         config.WeightConfig{Trend: 0.6, MarketHeat: 0.4},
	}
	log := logger.NewNop()
	return NewPipeline(
		finder,
		NewEnricher(gw, &stubAnalyzer{}, cfg, log),
		NewScorer(cfg.Weight, log),
		NewSelector(cfg, log),
		log,
	)
}

func TestPipelineRun(t *testing.T) {
	hot := contracts.StockInfo{Symbol: "600001", Name: "甲", Price: 20, PctChange: 6, TurnoverRate: 10, Amount: 60e8}
	finder := &stubFinder{candidates: []contracts.Candidate{
		contracts.NewCandidate(hot, contracts.RankingGainers),
	}}
	gw := &historyGateway{bars: map[string][]contracts.Bar{"600001": nBars(40)}}

	result, err := newTestPipeline(finder, gw).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Enriched)
	assert.Equal(t, 1, result.Stats.Ranked)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "600001", result.Recommendations[0].Stock.Symbol)
}

func TestPipelineEmptyResultIsSuccess(t *testing.T) {
	result, err := newTestPipeline(&stubFinder{}, &historyGateway{}).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Recommendations)
	assert.Equal(t, 0, result.Stats.Ranked)
}

func TestPipelinePropagatesDiscoveryFailure(t *testing.T) {
	finder := &stubFinder{err: errors.New("all feeds failed")}

	_, err := newTestPipeline(finder, &historyGateway{}).Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineCountsDrops(t *testing.T) {
	finder := &stubFinder{candidates: []contracts.Candidate{
		contracts.NewCandidate(contracts.StockInfo{Symbol: "600001", PctChange: 6, TurnoverRate: 10, Amount: 60e8}, contracts.RankingGainers),
		contracts.NewCandidate(contracts.StockInfo{Symbol: "600002"}, contracts.RankingGainers),
	}}
	gw := &historyGateway{
		bars: map[string][]contracts.Bar{"600001": nBars(40)},
		errs: map[string]error{"600002": errors.New("fetch failed")},
	}

	result, err := newTestPipeline(finder, gw).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Enriched)
	assert.Equal(t, 1, result.Stats.DroppedBy["history_failed"])
}
