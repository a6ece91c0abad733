package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/janisto/huma-fargate/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.LogError(context.Background(), "deploy failed", err)
	}
	_ = logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
