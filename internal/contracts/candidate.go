package contracts

import "sort"

// Candidate wraps a StockInfo with the ranking feeds it came from.
// The provenance union is informational only; it does not affect scoring.
type Candidate struct {
	Stock   StockInfo            `json:"stock"`
	Sources map[RankingList]bool `json:"sources"`
}

// NewCandidate creates a candidate with a single source tag
func NewCandidate(stock StockInfo, source RankingList) Candidate {
	return Candidate{
		Stock:   stock,
		Sources: map[RankingList]bool{source: true},
	}
}

// AddSource records one more feed the symbol appeared on
func (c *Candidate) AddSource(source RankingList) {
	if c.Sources == nil {
		c.Sources = make(map[RankingList]bool)
	}
	c.Sources[source] = true
}

// SourceTags returns the provenance set in deterministic order
func (c Candidate) SourceTags() []string {
	tags := make([]string, 0, len(c.Sources))
	for s := range c.Sources {
		tags = append(tags, string(s))
	}
	sort.Strings(tags)
	return tags
}

// TrendState classifies the moving-average alignment of a price series
type TrendState string

const (
	TrendBullish TrendState = "bullish" // 多头排列: MA5 > MA10 > MA20
	TrendBearish TrendState = "bearish" // 空头排列: MA5 < MA10 < MA20
	TrendMixed   TrendState = "mixed"
)

// TrendResult is the outcome of analyzing a price history
type TrendResult struct {
	State   TrendState `json:"state"`
	Score   float64    `json:"score"` // 0-100, higher = stronger bullish alignment
	Reasons []string   `json:"reasons"`

	// Moving averages behind the state, exposed for classification
	MA5     float64 `json:"ma5"`
	MA10    float64 `json:"ma10"`
	MA20    float64 `json:"ma20"`
	BiasMA5 float64 `json:"bias_ma5"` // close deviation from MA5 (%)
}

// IsBullish reports whether the trend is bullish-aligned
func (t TrendResult) IsBullish() bool {
	return t.State == TrendBullish
}

// TrendAnalyzer turns a price series into a trend assessment
type TrendAnalyzer interface {
	Analyze(symbol string, bars []Bar) (TrendResult, error)
}

// EnrichedCandidate is a candidate with history and trend analysis attached
type EnrichedCandidate struct {
	Candidate
	Trend TrendResult `json:"trend"`
	Bars  []Bar       `json:"-"` // retained for volatility assessment, not serialized
}
