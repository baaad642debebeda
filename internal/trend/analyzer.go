package trend

import (
	"fmt"
	"math"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Analyzer derives a moving-average trend assessment from daily bars.
// ⭐ SSOT: 추세 판정은 여기서만
type Analyzer struct {
	logger *logger.Logger
}

// NewAnalyzer creates a new trend analyzer
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{
		logger: log,
	}
}

// Analyze computes MA5/MA10/MA20 on the close series and classifies the
// alignment. Bars must be in ascending date order, newest last.
func (a *Analyzer) Analyze(symbol string, bars []contracts.Bar) (contracts.TrendResult, error) {
	result := contracts.TrendResult{State: contracts.TrendMixed}

	if len(bars) < 20 {
		return result, fmt.Errorf("trend analysis for %s needs 20 bars, got %d", symbol, len(bars))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	price := closes[len(closes)-1]
	result.MA5 = movingAverage(closes, 5)
	result.MA10 = movingAverage(closes, 10)
	result.MA20 = movingAverage(closes, 20)

	if result.MA5 > 0 {
		result.BiasMA5 = (price - result.MA5) / result.MA5 * 100
	}

	switch {
	case result.MA5 > result.MA10 && result.MA10 > result.MA20:
		result.State = contracts.TrendBullish
	case result.MA5 < result.MA10 && result.MA10 < result.MA20:
		result.State = contracts.TrendBearish
	default:
		result.State = contracts.TrendMixed
	}

	result.Score, result.Reasons = a.scoreTrend(closes, price, result)

	a.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"state":  result.State,
		"score":  result.Score,
		"ma5":    result.MA5,
		"ma10":   result.MA10,
		"ma20":   result.MA20,
	}).Debug("Analyzed trend")

	return result, nil
}

// scoreTrend maps the alignment plus momentum features onto a 0-100 score
func (a *Analyzer) scoreTrend(closes []float64, price float64, r contracts.TrendResult) (float64, []string) {
	score := 50.0
	var reasons []string

	switch r.State {
	case contracts.TrendBullish:
		score += 25
		reasons = append(reasons, "均线多头排列，趋势向上")
	case contracts.TrendBearish:
		score -= 25
		reasons = append(reasons, "均线空头排列，趋势偏弱")
	default:
		reasons = append(reasons, "均线交织，方向待确认")
	}

	if price > r.MA20 {
		score += 10
		reasons = append(reasons, "股价站上20日均线")
	} else {
		score -= 10
	}

	if ma5Rising(closes) {
		score += 10
		reasons = append(reasons, "5日均线持续上行")
	} else {
		score -= 10
	}

	// Strongly extended above MA5 means chasing risk rather than strength
	if math.Abs(r.BiasMA5) < 3 {
		score += 5
		reasons = append(reasons, "股价贴近5日均线，乖离率低")
	} else if r.BiasMA5 > 8 {
		score -= 5
	}

	return clamp(score, 0, 100), reasons
}

// ma5Rising reports whether MA5 today exceeds MA5 one session ago
func ma5Rising(closes []float64) bool {
	if len(closes) < 6 {
		return false
	}
	today := movingAverage(closes, 5)
	prev := movingAverage(closes[:len(closes)-1], 5)
	return today > prev
}

// movingAverage averages the trailing period closes
func movingAverage(closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return 0
	}
	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
