package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

type historyGateway struct {
	bars map[string][]contracts.Bar
	errs map[string]error
}

func (g *historyGateway) Ranking(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	return nil, errors.New("not used")
}

func (g *historyGateway) History(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	if err := g.errs[symbol]; err != nil {
		return nil, err
	}
	return g.bars[symbol], nil
}

type stubAnalyzer struct {
	errs map[string]error
}

func (a *stubAnalyzer) Analyze(symbol string, bars []contracts.Bar) (contracts.TrendResult, error) {
	if err := a.errs[symbol]; err != nil {
		return contracts.TrendResult{}, err
	}
	return contracts.TrendResult{State: contracts.TrendBullish, Score: 70}, nil
}

func nBars(n int) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Close: 10 + float64(i)*0.1}
	}
	return bars
}

func candidateFor(symbol string) contracts.Candidate {
	return contracts.NewCandidate(contracts.StockInfo{Symbol: symbol, Name: symbol}, contracts.RankingGainers)
}

func enrichConfig() config.HotStockConfig {
	return config.HotStockConfig{
		MaxConcurrent:  4,
		HistoryDays:    60,
		MinHistoryDays: 30,
		EnrichTimeout:  5 * time.Second,
	}
}

func TestEnrichKeepsInputOrder(t *testing.T) {
	gw := &historyGateway{bars: map[string][]contracts.Bar{
		"600001": nBars(40), "600002": nBars(40), "600003": nBars(40), "600004": nBars(40),
	}}
	e := NewEnricher(gw, &stubAnalyzer{}, enrichConfig(), logger.NewNop())

	in := []contracts.Candidate{
		candidateFor("600003"), candidateFor("600001"),
		candidateFor("600004"), candidateFor("600002"),
	}
	out, dropped := e.Enrich(context.Background(), in)

	require.Len(t, out, 4)
	assert.Empty(t, dropped)
	for i := range in {
		assert.Equal(t, in[i].Stock.Symbol, out[i].Stock.Symbol)
	}
}

func TestEnrichIsolatesFailures(t *testing.T) {
	gw := &historyGateway{
		bars: map[string][]contracts.Bar{
			"600001": nBars(40),
			"600002": nBars(10), // too short
			"600004": nBars(40),
		},
		errs: map[string]error{"600003": errors.New("fetch failed")},
	}
	analyzer := &stubAnalyzer{errs: map[string]error{"600004": errors.New("bad series")}}
	e := NewEnricher(gw, analyzer, enrichConfig(), logger.NewNop())

	out, dropped := e.Enrich(context.Background(), []contracts.Candidate{
		candidateFor("600001"), candidateFor("600002"),
		candidateFor("600003"), candidateFor("600004"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, "600001", out[0].Stock.Symbol)
	assert.Equal(t, 1, dropped["insufficient_history"])
	assert.Equal(t, 1, dropped["history_failed"])
	assert.Equal(t, 1, dropped["analysis_failed"])
}

func TestEnrichEmptyInput(t *testing.T) {
	e := NewEnricher(&historyGateway{}, &stubAnalyzer{}, enrichConfig(), logger.NewNop())

	out, dropped := e.Enrich(context.Background(), nil)
	assert.Empty(t, out)
	assert.Empty(t, dropped)
}

func TestEnrichAttachesTrendAndBars(t *testing.T) {
	gw := &historyGateway{bars: map[string][]contracts.Bar{"600001": nBars(45)}}
	e := NewEnricher(gw, &stubAnalyzer{}, enrichConfig(), logger.NewNop())

	out, _ := e.Enrich(context.Background(), []contracts.Candidate{candidateFor("600001")})
	require.Len(t, out, 1)
	assert.Equal(t, contracts.TrendBullish, out[0].Trend.State)
	assert.Len(t, out[0].Bars, 45)
}
