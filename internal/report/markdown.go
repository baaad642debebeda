package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
)

// Renderer produces the daily markdown recommendation report.
// An empty recommendation list renders an explicit "no picks" document,
// never an empty string.
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a new markdown renderer
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

var riskEmoji = map[contracts.RiskLevel]string{
	contracts.RiskLow:    "🟢",
	contracts.RiskMedium: "🟡",
	contracts.RiskHigh:   "🔴",
}

var categoryEmoji = map[contracts.Category]string{
	contracts.CategoryStrong:    "🚀",
	contracts.CategoryPullback:  "📉",
	contracts.CategoryBreakout:  "💥",
	contracts.CategoryValue:     "💎",
	contracts.CategoryPotential: "⭐",
}

// Render builds the full report for one pipeline run
func (r *Renderer) Render(result *contracts.RunResult) string {
	date := result.Date.Format("2006-01-02")

	if len(result.Recommendations) == 0 {
		return r.renderEmpty(date, result.Stats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 🔥 %s 热门股票推荐\n\n", date)
	fmt.Fprintf(&b, "> 共推荐 **%d** 只热门股票\n\n", len(result.Recommendations))

	writeStatsTable(&b, result.Stats)
	b.WriteString("---\n\n")

	for i, rec := range result.Recommendations {
		writeStockCard(&b, rec, i+1)
		b.WriteString("\n---\n\n")
	}

	b.WriteString("## 📋 说明\n\n")
	b.WriteString("- **评分范围**: 0-100分，60分以上为推荐买入\n")
	b.WriteString("- **股票分类**:\n")
	b.WriteString("  - 强势股：多头排列且市场热度高\n")
	b.WriteString("  - 回调股：多头排列但价格回调至均线附近\n")
	b.WriteString("  - 突破股：均线刚突破形成多头排列\n")
	b.WriteString("  - 价值股：趋势健康但热度尚低\n")
	b.WriteString("  - 潜力股：其他符合条件的股票\n")
	b.WriteString("- **风险等级**: 基于换手率、涨幅和波动率综合判断\n\n")
	fmt.Fprintf(&b, "*报告生成时间：%s*\n", r.now().Format("2006-01-02 15:04:05"))

	return b.String()
}

func (r *Renderer) renderEmpty(date string, stats contracts.FunnelStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🔥 %s 热门股票推荐\n\n", date)
	b.WriteString("> 当前市场无合适推荐\n\n")

	writeStatsTable(&b, stats)

	b.WriteString("## 📊 市场状况\n\n")
	b.WriteString("当前市场环境下，暂无符合推荐条件的热门股票。\n\n")
	b.WriteString("可能的原因：\n")
	b.WriteString("- 市场整体处于调整期\n")
	b.WriteString("- 热门股票涨幅过大，追高风险高\n")
	b.WriteString("- 未形成多头排列（MA5 > MA10 > MA20）\n")
	b.WriteString("- 评分未达到推荐标准（< 60分）\n\n")
	b.WriteString("建议：\n")
	b.WriteString("- 保持观望，等待更好的买入时机\n")
	b.WriteString("- 关注已持仓股票的走势\n")
	b.WriteString("- 避免追高，控制风险\n\n")
	fmt.Fprintf(&b, "*报告生成时间：%s*\n", r.now().Format("2006-01-02 15:04:05"))

	return b.String()
}

func writeStatsTable(b *strings.Builder, stats contracts.FunnelStats) {
	b.WriteString("## 📈 数据统计\n\n")
	b.WriteString("| 统计项 | 数量 |\n")
	b.WriteString("|--------|------|\n")
	fmt.Fprintf(b, "| 涨幅榜获取 | %d 只 |\n", stats.GainersCount)
	fmt.Fprintf(b, "| 成交额榜获取 | %d 只 |\n", stats.TurnoverCount)
	fmt.Fprintf(b, "| 换手率榜获取 | %d 只 |\n", stats.TurnoverRateCount)
	fmt.Fprintf(b, "| 合并去重后 | %d 只 |\n", stats.Merged)
	fmt.Fprintf(b, "| 过滤后剩余 | %d 只 |\n", stats.Eligible)
	fmt.Fprintf(b, "| 分析完成 | %d 只 |\n", stats.Enriched)
	fmt.Fprintf(b, "| 最终推荐 | %d 只 |\n\n", stats.Ranked)
}

func writeStockCard(b *strings.Builder, rec contracts.Recommendation, index int) {
	stock := rec.Stock
	trend := rec.Trend

	fmt.Fprintf(b, "## %d. %s %s (%s)\n\n", index, categoryEmoji[rec.Category], stock.Name, stock.Symbol)
	fmt.Fprintf(b, "**综合评分**: %.1f分 | **分类**: %s | **风险**: %s %s\n\n",
		rec.Score, rec.Category.Label(), riskEmoji[rec.Risk], rec.Risk.Label())

	if len(rec.Reasons) > 0 {
		b.WriteString("### 💡 推荐理由\n\n")
		for _, reason := range rec.Reasons {
			fmt.Fprintf(b, "- %s\n", reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("### 📊 基本信息\n\n")
	b.WriteString("| 指标 | 数值 |\n")
	b.WriteString("|------|------|\n")
	fmt.Fprintf(b, "| 当前价 | %.2f 元 |\n", stock.Price)
	fmt.Fprintf(b, "| 涨跌幅 | %+.2f%% |\n", stock.PctChange)
	fmt.Fprintf(b, "| 成交量 | %.2f 万手 |\n", stock.Volume/1e4)
	fmt.Fprintf(b, "| 成交额 | %.2f 亿元 |\n", stock.Amount/1e8)
	fmt.Fprintf(b, "| 换手率 | %.2f%% |\n", stock.TurnoverRate)
	fmt.Fprintf(b, "| 市值 | %.2f 亿元 |\n", stock.MarketCap/1e8)
	fmt.Fprintf(b, "| 上榜来源 | %s |\n\n", strings.Join(rec.SourceTags(), ", "))

	b.WriteString("### 📈 趋势分析\n\n")
	fmt.Fprintf(b, "**均线**: MA5=%.2f MA10=%.2f MA20=%.2f (乖离率 %.2f%%)\n\n",
		trend.MA5, trend.MA10, trend.MA20, trend.BiasMA5)
	fmt.Fprintf(b, "**趋势评分**: %.0f分\n\n", trend.Score)

	if len(rec.RiskWarnings) > 0 {
		b.WriteString("### ⚠️ 风险提示\n\n")
		for _, w := range rec.RiskWarnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
	}
}
