package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runCmd executes one recommendation cycle and prints the report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "执行一次推荐流水线",
	Long: `执行一次完整的热门股票推荐流程：

1. 获取涨幅榜、成交额榜、换手率榜
2. 合并去重并应用过滤条件
3. 并发获取历史行情并做趋势分析
4. 综合评分、分类、风险评估
5. 输出 Markdown 报告

Example:
  go run ./cmd/hotstock run
  go run ./cmd/hotstock run --timeout 5m --no-notify`,
	RunE: runOnce,
}

var (
	runTimeout  time.Duration
	runNoNotify bool
	runNoSave   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "总运行时间上限")
	runCmd.Flags().BoolVar(&runNoNotify, "no-notify", false, "跳过 webhook 通知")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "跳过数据库存储")
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := a.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("recommendation run: %w", err)
	}

	markdown := a.renderer.Render(result)
	fmt.Println(markdown)

	if a.repo != nil && !runNoSave {
		if err := a.repo.SaveRun(ctx, result); err != nil {
			a.log.WithError(err).Warn("Failed to persist run result")
		}
	}

	if !runNoNotify {
		_ = a.notifier.NotifyRun(ctx, result, markdown)
	}

	return nil
}
