package market

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/hotstock/backend/internal/contracts"
)

// rankingFromHTML scrapes a ranking table from the configured fallback page.
// Expected row layout: 代码, 名称, 最新价, 涨跌幅, 换手率, 成交量, 成交额, 总市值.
// Listing dates are not available from the HTML source and stay zero.
func (c *Client) rankingFromHTML(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	pageURL := fmt.Sprintf("%s?list=%s&count=%d", c.fallbackURL, list, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
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

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	stocks := parseRankingTable(doc, limit)
	if len(stocks) == 0 {
		return nil, fmt.Errorf("fallback page yielded no rows for %s", list)
	}

	c.logger.WithFields(map[string]interface{}{
		"list":   list,
		"count":  len(stocks),
		"source": "html_fallback",
	}).Debug("Fetched ranking list")

	return stocks, nil
}

// parseRankingTable extracts stock rows from the first table on the page
func parseRankingTable(doc *goquery.Document, limit int) []contracts.StockInfo {
	var stocks []contracts.StockInfo

	doc.Find("table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 8 {
			return true
		}

		cell := func(idx int) string {
			return strings.TrimSpace(cells.Eq(idx).Text())
		}

		symbol := cell(0)
		if symbol == "" {
			return true
		}

		stocks = append(stocks, contracts.StockInfo{
			Symbol:       symbol,
			Name:         cell(1),
			Price:        parseNumber(cell(2)),
			PctChange:    parseNumber(cell(3)),
			TurnoverRate: parseNumber(cell(4)),
			Volume:       parseNumber(cell(5)),
			Amount:       parseNumber(cell(6)),
			MarketCap:    parseNumber(cell(7)),
		})

		return len(stocks) < limit
	})

	return stocks
}

// parseNumber parses numbers as rendered in the HTML table,
// tolerating percent signs, thousands separators and 亿/万 suffixes
func parseNumber(text string) float64 {
	text = strings.TrimSuffix(text, "%")
	text = strings.ReplaceAll(text, ",", "")

	multiplier := 1.0
	if strings.HasSuffix(text, "亿") {
		multiplier = 1e8
		text = strings.TrimSuffix(text, "亿")
	} else if strings.HasSuffix(text, "万") {
		multiplier = 1e4
		text = strings.TrimSuffix(text, "万")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}
