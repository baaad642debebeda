package contracts

import "time"

// FunnelStats counts candidates at each pipeline stage for report templating
type FunnelStats struct {
	GainersCount      int `json:"gainers_count"`
	TurnoverCount     int `json:"turnover_count"`
	TurnoverRateCount int `json:"turnover_rate_count"`

	Merged   int `json:"merged"`   // after dedup, before filters
	Eligible int `json:"eligible"` // after filters
	Enriched int `json:"enriched"` // after history + trend analysis
	Ranked   int `json:"ranked"`   // after min-score cutoff and top-N

	FilteredBy map[string]int `json:"filtered_by"` // filter name -> drop count
	DroppedBy  map[string]int `json:"dropped_by"`  // enrichment drop reason -> count
}

// RunResult is a complete pipeline run outcome
type RunResult struct {
	Date            time.Time        `json:"date"`
	Stats           FunnelStats      `json:"stats"`
	Recommendations []Recommendation `json:"recommendations"`
	Duration        time.Duration    `json:"duration"`
}
