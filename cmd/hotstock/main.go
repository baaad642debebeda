package main

import (
	"os"

	"github.com/wonny/hotstock/backend/cmd/hotstock/commands"
)

// main is the entry point for the hotstock CLI
// ⭐ 统一 CLI 入口: go run ./cmd/hotstock [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
