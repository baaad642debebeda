package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
)

// klineResponse is the envelope of the kline history API
type klineResponse struct {
	Data struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// History fetches up to days calendar days of daily bars for a symbol,
// oldest first, 前复权 adjusted.
// ⭐ SSOT: 历史行情获取只在这个函数
func (c *Client) History(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	beg := time.Now().AddDate(0, 0, -days).Format("20060102")

	apiURL := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=20500101"+
			"&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56",
		c.histBaseURL, secID(symbol), beg,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var apiResp klineResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	bars, err := parseKlines(apiResp.Data.Klines)
	if err != nil {
		return nil, fmt.Errorf("parse klines for %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched price history")

	return bars, nil
}

// parseKlines parses "date,open,close,high,low,volume" rows
func parseKlines(klines []string) ([]contracts.Bar, error) {
	bars := make([]contracts.Bar, 0, len(klines))

	for _, line := range klines {
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			continue
		}

		date, err := time.Parse("2006-01-02", fields[0])
		if err != nil {
			continue
		}

		open, err1 := strconv.ParseFloat(fields[1], 64)
		close_, err2 := strconv.ParseFloat(fields[2], 64)
		high, err3 := strconv.ParseFloat(fields[3], 64)
		low, err4 := strconv.ParseFloat(fields[4], 64)
		volume, err5 := strconv.ParseFloat(fields[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close_,
			Volume: volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no parsable bars in %d rows", len(klines))
	}

	return bars, nil
}
