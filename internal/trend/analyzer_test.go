package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// barsFromCloses builds ascending daily bars from a close series
func barsFromCloses(closes []float64) []contracts.Bar {
	bars := make([]contracts.Bar, len(closes))
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			Close:  c,
			High:   c,
			Low:    c,
			Volume: 10000,
		}
	}
	return bars
}

// risingCloses generates a strictly rising series, which forces
// MA5 > MA10 > MA20
func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 10.0 + float64(i)*0.2
	}
	return closes
}

func fallingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 30.0 - float64(i)*0.2
	}
	return closes
}

func TestAnalyzeBullishAlignment(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	result, err := a.Analyze("600001", barsFromCloses(risingCloses(30)))
	require.NoError(t, err)

	assert.Equal(t, contracts.TrendBullish, result.State)
	assert.True(t, result.IsBullish())
	assert.Greater(t, result.MA5, result.MA10)
	assert.Greater(t, result.MA10, result.MA20)
	assert.Greater(t, result.Score, 50.0)
	assert.NotEmpty(t, result.Reasons)
}

func TestAnalyzeBearishAlignment(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	result, err := a.Analyze("600002", barsFromCloses(fallingCloses(30)))
	require.NoError(t, err)

	assert.Equal(t, contracts.TrendBearish, result.State)
	assert.False(t, result.IsBullish())
	assert.Less(t, result.Score, 50.0)
}

func TestAnalyzeFlatSeriesIsMixed(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 15.0
	}
	result, err := a.Analyze("600003", barsFromCloses(closes))
	require.NoError(t, err)

	assert.Equal(t, contracts.TrendMixed, result.State)
}

func TestAnalyzeScoreBounds(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	for _, closes := range [][]float64{risingCloses(60), fallingCloses(60)} {
		result, err := a.Analyze("600004", barsFromCloses(closes))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
	}
}

func TestAnalyzeInsufficientBars(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	_, err := a.Analyze("600005", barsFromCloses(risingCloses(10)))
	assert.Error(t, err)
}

func TestBiasMA5(t *testing.T) {
	a := NewAnalyzer(logger.NewNop())

	// Last close jumps well above the recent average
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10.0
	}
	closes[29] = 12.0

	result, err := a.Analyze("600006", barsFromCloses(closes))
	require.NoError(t, err)
	assert.Greater(t, result.BiasMA5, 10.0)
}

func TestMovingAverage(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 4.0, movingAverage(closes, 3))
	assert.Equal(t, 3.0, movingAverage(closes, 5))
	assert.Equal(t, 0.0, movingAverage(closes, 6))
}
