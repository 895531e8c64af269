package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/kedoo/internal/shared"
)

const version = "0.3.0"

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.App().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not signed in, run 'kedoo auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
