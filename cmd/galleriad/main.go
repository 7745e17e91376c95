package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"galleria/internal/config"
	"galleria/internal/daemon"
	"galleria/internal/logging"
	"galleria/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, found, err := config.Load(os.Getenv("GALLERIA_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !found {
		logger.Warn("no configuration file found, using defaults",
			logging.String("expected", path))
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		_ = d.Close()
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("galleriad shutting down")
}
