package market

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rankingHTML = `
<table>
  <tbody>
    <tr><td>600519</td><td>贵州茅台</td><td>1,520.50</td><td>2.35%</td><td>0.52%</td><td>3.2万</td><td>48.6亿</td><td>1.9万亿</td></tr>
    <tr><td>300750</td><td>宁德时代</td><td>210.00</td><td>5.10%</td><td>3.80%</td><td>45.1万</td><td>95.2亿</td><td>9240亿</td></tr>
    <tr><td>short</td><td>row</td></tr>
  </tbody>
</table>`

func TestParseRankingTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rankingHTML))
	require.NoError(t, err)

	stocks := parseRankingTable(doc, 10)
	require.Len(t, stocks, 2)

	assert.Equal(t, "600519", stocks[0].Symbol)
	assert.Equal(t, "贵州茅台", stocks[0].Name)
	assert.Equal(t, 1520.50, stocks[0].Price)
	assert.Equal(t, 2.35, stocks[0].PctChange)
	assert.True(t, stocks[0].ListingDate.IsZero())
}

func TestParseRankingTableHonorsLimit(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rankingHTML))
	require.NoError(t, err)

	stocks := parseRankingTable(doc, 1)
	assert.Len(t, stocks, 1)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 1520.5, parseNumber("1,520.50"))
	assert.Equal(t, 2.35, parseNumber("2.35%"))
	assert.InDelta(t, 4.86e9, parseNumber("48.6亿"), 1)
	assert.InDelta(t, 3.2e4, parseNumber("3.2万"), 0.001)
	assert.Equal(t, 0.0, parseNumber("-"))
}
