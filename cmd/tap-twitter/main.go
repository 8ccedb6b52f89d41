package main

import (
	"os"

	"github.com/custodia-labs/tap-twitter/internal/adapters/driving/cli"
	"github.com/custodia-labs/tap-twitter/internal/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
