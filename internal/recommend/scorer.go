package recommend

import (
	"fmt"
	"math"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Heat score component weights and saturation points.
// Each component grows linearly with activity and caps at its budget,
// so the total is monotonic and bounded to [0,100].
const (
	heatChangeBudget   = 50.0
	heatChangeCap      = 8.0 // % change where the component saturates
	heatTurnoverBudget = 25.0
	heatTurnoverCap    = 15.0 // % turnover rate where the component saturates
	heatAmountBudget   = 25.0
	heatAmountCap      = 50e8 // 成交额 50亿元 where the component saturates
)

const (
	strongHeatThreshold  = 70.0 // heat score for the strong category
	breakoutChangeMin    = 3.0  // % change for the breakout category
	breakoutMaxBias      = 3.0  // |bias vs MA5| keeping breakout fresh
	valueHeatCeiling     = 40.0
	valueTrendFloor      = 50.0
	volatilityWindow     = 10
	volatilityBumpLevel  = 0.05 // stddev/mean ratio that bumps risk one level
	highTurnoverRate     = 15.0
	highChangePct        = 8.0
	mediumTurnoverRate   = 10.0
	mediumChangePct      = 5.0
	modestTurnoverRate   = 5.0
	modestChangePct      = 3.0
	activeAmountBillions = 10.0 // 成交额(亿) considered high attention
)

// Scorer turns enriched candidates into recommendations: composite score,
// category classification and risk assessment. Pure computation, no I/O,
// and it never fails; every enriched candidate yields a recommendation.
// ⭐ SSOT: 评分、分类、风险评估只在这里
type Scorer struct {
	weights config.WeightConfig
	logger  *logger.Logger
}

// NewScorer creates a new scorer
func NewScorer(weights config.WeightConfig, log *logger.Logger) *Scorer {
	return &Scorer{
		weights: weights,
		logger:  log,
	}
}

// Score builds one recommendation per enriched candidate
func (s *Scorer) Score(candidates []contracts.EnrichedCandidate) []contracts.Recommendation {
	recs := make([]contracts.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, s.scoreOne(c))
	}
	return recs
}

func (s *Scorer) scoreOne(c contracts.EnrichedCandidate) contracts.Recommendation {
	heat := marketHeatScore(c.Stock)
	composite := clampScore(c.Trend.Score*s.weights.Trend + heat*s.weights.MarketHeat)

	category := classify(c, heat)
	risk := assessRisk(c.Stock, c.Bars)

	rec := contracts.Recommendation{
		EnrichedCandidate: c,
		Score:             composite,
		Category:          category,
		Risk:              risk,
		Reasons:           buildReasons(c, category),
		RiskWarnings:      buildRiskWarnings(c.Stock, risk),
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol":   c.Stock.Symbol,
		"trend":    c.Trend.Score,
		"heat":     heat,
		"score":    composite,
		"category": category,
		"risk":     risk,
	}).Debug("Scored candidate")

	return rec
}

// marketHeatScore rates market activity on [0,100]. Each component is a
// capped linear ramp, so more activity never lowers the score.
func marketHeatScore(stock contracts.StockInfo) float64 {
	score := ramp(stock.PctChange, heatChangeCap) * heatChangeBudget
	score += ramp(stock.TurnoverRate, heatTurnoverCap) * heatTurnoverBudget
	score += ramp(stock.Amount, heatAmountCap) * heatAmountBudget
	return clampScore(score)
}

// ramp maps v linearly onto [0,1], saturating at limit. Negative values
// score zero.
func ramp(v, limit float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= limit {
		return 1
	}
	return v / limit
}

// classify assigns exactly one category. Rules are checked in a fixed
// priority order and the first match wins.
func classify(c contracts.EnrichedCandidate, heat float64) contracts.Category {
	trend := c.Trend
	stock := c.Stock
	price := stock.Price

	bullish := trend.IsBullish()

	// 1. 强势股: bullish alignment with high market heat
	if bullish && heat >= strongHeatThreshold {
		return contracts.CategoryStrong
	}

	// 2. 突破股: bullish, meaningful daily gain, price still near MA5
	if bullish && stock.PctChange >= breakoutChangeMin && math.Abs(trend.BiasMA5) < breakoutMaxBias {
		return contracts.CategoryBreakout
	}

	// 3. 回调股: bullish but pulling back into the MA5-MA10 band
	if bullish && (stock.PctChange < 0 || (trend.MA10 < price && price < trend.MA5)) {
		return contracts.CategoryPullback
	}

	// 4. 价值股: quiet market, solid underlying trend
	if heat < valueHeatCeiling && trend.Score > valueTrendFloor {
		return contracts.CategoryValue
	}

	// 5. 潜力股: everything else
	return contracts.CategoryPotential
}

// assessRisk grades risk from turnover, daily change and a volatility
// proxy over the last ten closes.
func assessRisk(stock contracts.StockInfo, bars []contracts.Bar) contracts.RiskLevel {
	turnover := stock.TurnoverRate
	change := stock.PctChange

	var level contracts.RiskLevel
	switch {
	case turnover > highTurnoverRate && change > highChangePct:
		level = contracts.RiskHigh
	case turnover >= modestTurnoverRate && turnover <= highTurnoverRate &&
		change >= modestChangePct && change <= highChangePct:
		level = contracts.RiskMedium
	case turnover < modestTurnoverRate && change < modestChangePct:
		level = contracts.RiskLow
	case turnover > highTurnoverRate || change > highChangePct:
		level = contracts.RiskHigh
	case turnover > mediumTurnoverRate || change > mediumChangePct:
		level = contracts.RiskMedium
	default:
		level = contracts.RiskLow
	}

	if recentVolatility(bars, volatilityWindow) > volatilityBumpLevel {
		level = level.Bump()
	}

	return level
}

// recentVolatility returns stddev/mean over the trailing window closes.
// Zero when there are not enough bars.
func recentVolatility(bars []contracts.Bar, window int) float64 {
	if len(bars) < window {
		return 0
	}

	closes := bars[len(bars)-window:]
	var sum float64
	for _, b := range closes {
		sum += b.Close
	}
	mean := sum / float64(window)
	if mean == 0 {
		return 0
	}

	var sq float64
	for _, b := range closes {
		d := b.Close - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(window-1))

	return std / mean
}

func buildReasons(c contracts.EnrichedCandidate, category contracts.Category) []string {
	stock := c.Stock
	reasons := append([]string{}, c.Trend.Reasons...)

	switch category {
	case contracts.CategoryStrong:
		reasons = append(reasons, fmt.Sprintf("✅ 强势股，涨幅%.2f%%，市场关注度高", stock.PctChange))
	case contracts.CategoryBreakout:
		reasons = append(reasons, "✅ 突破股，均线刚形成多头排列，趋势向上")
	case contracts.CategoryPullback:
		reasons = append(reasons, "✅ 回调股，价格回踩MA5-MA10区间，介入时机好")
	case contracts.CategoryValue:
		reasons = append(reasons, "✅ 价值股，热度低位但趋势健康")
	}

	if stock.TurnoverRate >= modestTurnoverRate && stock.TurnoverRate <= highTurnoverRate {
		reasons = append(reasons, fmt.Sprintf("✅ 换手率%.2f%%，筹码活跃度适中", stock.TurnoverRate))
	}
	if stock.Amount/1e8 >= activeAmountBillions {
		reasons = append(reasons, fmt.Sprintf("✅ 成交额%.2f亿，市场关注度高", stock.Amount/1e8))
	}

	return reasons
}

func buildRiskWarnings(stock contracts.StockInfo, level contracts.RiskLevel) []string {
	var warnings []string

	switch level {
	case contracts.RiskHigh:
		warnings = append(warnings, "⚠️ 风险等级：高，建议谨慎操作，控制仓位")
	case contracts.RiskMedium:
		warnings = append(warnings, "⚠️ 风险等级：中，建议适度参与，注意止损")
	}

	if stock.PctChange > highChangePct {
		warnings = append(warnings, fmt.Sprintf("⚠️ 短期涨幅较大(%.2f%%)，注意回调风险", stock.PctChange))
	}
	if stock.TurnoverRate > highTurnoverRate {
		warnings = append(warnings, fmt.Sprintf("⚠️ 换手率过高(%.2f%%)，资金博弈激烈", stock.TurnoverRate))
	}

	if len(warnings) == 0 {
		warnings = append(warnings, "💡 风险等级：低，但仍需关注市场变化")
	}

	return warnings
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
