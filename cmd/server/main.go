package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/netpath/internal/config"
	"github.com/vanshika/netpath/internal/logging"
	"github.com/vanshika/netpath/internal/repository"
	"github.com/vanshika/netpath/internal/server"
	"github.com/vanshika/netpath/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	source, err := repository.Open(ctx, cfg.Graph)
	if err != nil {
		logger.Error("failed to open graph source", "source", cfg.Graph.Source, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Warn("closing graph source failed", "error", err)
		}
	}()

	graphService := service.NewGraphService(source, logger, service.Options{
		BatchWorkers:  cfg.Graph.BatchWorkers,
		BatchMaxPairs: cfg.Graph.BatchMaxPairs,
	})
	if err := graphService.Load(ctx); err != nil {
		logger.Error("initial graph load failed", "error", err)
		os.Exit(1)
	}

	if cfg.Graph.Watch {
		startWatcher(ctx, logger, graphService, source)
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           healthFor(source),
		API:              server.NewAPIHandlers(logger, graphService),
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: cfg.HTTP.AllowCredentials,
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		RateLimit:        cfg.HTTP.RateLimit,
		RateBurst:        cfg.HTTP.RateBurst,
		StaticDir:        cfg.HTTP.StaticDir,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func startWatcher(ctx context.Context, logger *slog.Logger, svc *service.GraphService, source repository.Source) {
	fb, ok := source.(repository.FileBacked)
	if !ok {
		logger.Warn("graph watch requested but source is not file backed, ignoring")
		return
	}
	watcher, err := service.NewWatcher(svc, fb.Files(), logger)
	if err != nil {
		logger.Error("failed to create graph watcher", "error", err)
		return
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("graph watcher stopped", "error", err)
		}
	}()
}

func healthFor(source repository.Source) server.HealthService {
	if neo, ok := source.(*repository.Neo4jSource); ok {
		return server.GraphDBHealthService{Client: neo.Client()}
	}
	return nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
