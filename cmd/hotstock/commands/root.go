package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hotstock",
	Short: "A股热门股票推荐系统",
	Long: `Hotstock CLI

从涨幅榜、成交额榜、换手率榜发现热门股票，
经过过滤、趋势分析、综合评分后输出每日推荐。

Usage:
  go run ./cmd/hotstock [command]

Examples:
  go run ./cmd/hotstock run
  go run ./cmd/hotstock discover
  go run ./cmd/hotstock serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
