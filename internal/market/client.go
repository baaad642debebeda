package market

import (
	"strings"

	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/httputil"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches A-share market data from the Eastmoney quote APIs
// ⭐ SSOT: 行情 API 调用只通过这个客户端
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	baseURL     string
	histBaseURL string
	fallbackURL string
}

// NewClient creates a new market data client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      log.WithField("module", "market"),
		baseURL:     strings.TrimRight(cfg.Market.BaseURL, "/"),
		histBaseURL: strings.TrimRight(cfg.Market.HistoryBaseURL, "/"),
		fallbackURL: cfg.Market.FallbackURL,
	}
}

// secID maps a 6-digit symbol to the exchange-prefixed id the quote API wants.
// Shanghai listings (6xxxxx) use prefix 1, Shenzhen/Beijing use 0.
func secID(symbol string) string {
	if strings.HasPrefix(symbol, "6") {
		return "1." + symbol
	}
	return "0." + symbol
}

// asFloat converts a loosely typed API field to float64.
// Suspended stocks report "-" for numeric fields.
func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0
	}
}

// asString converts a loosely typed API field to string
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
