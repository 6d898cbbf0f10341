package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"expenselog/internal/backend"
	"expenselog/internal/cli"
	applog "expenselog/internal/log"
	"expenselog/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger("info", applog.ComponentWorker), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)

	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "Worker needs a broker", errors.New("AMQP_URL is not set"))
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res, err := backend.NewFactory(logger.With(applog.FieldComponent, applog.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()
	if res.AMQP == nil {
		cli.Fatal(logger, "Failed to connect to AMQP broker", errors.New("broker unreachable"))
	}

	changes := worker.NewChangeWorker(res.Store, cfg.Currency, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Log the current totals once so the first change has a baseline.
		_, err := changes.Recompute(gctx)
		return err
	})
	g.Go(func() error {
		logger.Info("Starting expenselog-worker",
			"queue", cfg.AMQPQueue,
			"backend", cfg.DataBackend)
		return res.AMQP.ConsumeExpenseChanges(gctx, changes.HandleChangeMessage)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		return
	}
	logger.Info("Worker stopped gracefully")
}
