package contracts

// Category tags a recommendation with its setup type.
// Exactly one category applies, decided by a fixed priority order.
type Category string

const (
	CategoryStrong   Category = "strong"   // 强势股
	CategoryBreakout Category = "breakout" // 突破股
	CategoryPullback Category = "pullback" // 回调股
	CategoryValue    Category = "value"    // 价值股
	CategoryPotential Category = "potential" // 潜力股
)

// Label returns the display name for a category
func (c Category) Label() string {
	switch c {
	case CategoryStrong:
		return "强势股"
	case CategoryBreakout:
		return "突破股"
	case CategoryPullback:
		return "回调股"
	case CategoryValue:
		return "价值股"
	default:
		return "潜力股"
	}
}

// RiskLevel grades the short-term risk of a recommendation
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Label returns the display name for a risk level
func (r RiskLevel) Label() string {
	switch r {
	case RiskLow:
		return "低"
	case RiskMedium:
		return "中"
	default:
		return "高"
	}
}

// Bump raises the risk one level, saturating at high
func (r RiskLevel) Bump() RiskLevel {
	switch r {
	case RiskLow:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Recommendation is the terminal pipeline entity: an enriched candidate with
// its composite score, classification and rationale. Immutable once built.
// The composite score is a pure function of the enriched candidate and the
// configured weights; ordering key is score desc, symbol asc on ties.
type Recommendation struct {
	EnrichedCandidate
	Score        float64   `json:"score"` // 0-100
	Category     Category  `json:"category"`
	Risk         RiskLevel `json:"risk"`
	Reasons      []string  `json:"reasons"`
	RiskWarnings []string  `json:"risk_warnings"`
}

// Less is the canonical recommendation ordering: higher score first,
// symbol ascending on equal scores so runs are deterministic.
func (r Recommendation) Less(other Recommendation) bool {
	if r.Score != other.Score {
		return r.Score > other.Score
	}
	return r.Stock.Symbol < other.Stock.Symbol
}
