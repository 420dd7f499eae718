package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wishboard/internal/cli"
	"wishboard/internal/config"
	"wishboard/internal/utils"

	"go.uber.org/zap"
)

func main() {
	logger, err := utils.NewConsoleLogger(os.Getenv("WISHBOARD_VERBOSE") != "")
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	utils.LoadEnv(zap.NewNop())
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, logger, os.Stdin, os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintln(os.Stderr, cli.StyleError.Render(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
