package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// discoverCmd runs discovery + filtering only, without trend analysis
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "只执行候选发现与过滤",
	Long: `获取三个榜单，合并去重并应用过滤条件，打印合格候选。

不做历史行情获取和趋势分析，适合快速检查数据源与过滤参数。

Example:
  go run ./cmd/hotstock discover`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidates, stats, err := a.finder.Find(ctx)
	if err != nil {
		return fmt.Errorf("discover candidates: %w", err)
	}

	fmt.Printf("榜单获取: 涨幅榜=%d 成交额榜=%d 换手率榜=%d\n",
		stats.GainersCount, stats.TurnoverCount, stats.TurnoverRateCount)
	fmt.Printf("合并去重: %d  过滤后: %d\n\n", stats.Merged, stats.Eligible)

	if len(stats.FilteredBy) > 0 {
		fmt.Println("过滤明细:")
		for reason, n := range stats.FilteredBy {
			fmt.Printf("  %-22s %d\n", reason, n)
		}
		fmt.Println()
	}

	fmt.Printf("%-8s %-10s %10s %8s %8s %10s  %s\n",
		"代码", "名称", "价格", "涨跌幅", "换手率", "市值(亿)", "来源")
	for _, cand := range candidates {
		s := cand.Stock
		fmt.Printf("%-8s %-10s %10.2f %7.2f%% %7.2f%% %10.1f  %s\n",
			s.Symbol, s.Name, s.Price, s.PctChange, s.TurnoverRate,
			s.MarketCap/1e8, strings.Join(cand.SourceTags(), ","))
	}

	return nil
}
