package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/internal/bootstrap"
	"github.com/angelmondragon/storefront-backend/internal/cli"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &cli.RootOptions{Open: open}
	root := cli.NewRootCommand(opts)
	err := root.ExecuteContext(ctx)
	if closeErr := opts.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(closeErr))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}

// open builds the runtime from the environment. Logs go to stderr so they
// never interleave with command output.
func open(ctx context.Context) (*bootstrap.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "shopctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Output:      os.Stderr,
	})
	return bootstrap.Build(ctx, cfg, logg, bootstrap.Options{})
}
