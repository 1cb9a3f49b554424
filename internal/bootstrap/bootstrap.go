// Package bootstrap loads configuration, wires the providers and the
// pipeline together, and runs the HTTP server until shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"imagesense/internal/core/fetch"
	"imagesense/internal/core/providers/caption"
	"imagesense/internal/core/providers/llm"
	"imagesense/internal/core/providers/speech"
	"imagesense/internal/domain/colors"
	"imagesense/internal/domain/pipeline"
	"imagesense/internal/domain/scope"
	"imagesense/internal/domain/textgen"
	platformconfig "imagesense/internal/platform/config"
	platformerrors "imagesense/internal/platform/errors"
	platformlogging "imagesense/internal/platform/logging"
	httptransport "imagesense/internal/transport/http"
	httpanalysis "imagesense/internal/transport/http/analysis"

	// provider registration
	_ "imagesense/internal/core/providers/caption/openai"
	_ "imagesense/internal/core/providers/llm/openai"
)

// Run starts the whole service lifecycle: configuration, logging,
// providers, routes, and graceful shutdown on SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.InfoTag("BOOT", "starting imagesense server")

	service, err := buildService(cfg, logger)
	if err != nil {
		return err
	}

	router, err := httptransport.Build(httptransport.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	if err := service.Register(ctx, router.Root); err != nil {
		return err
	}

	return serve(ctx, cfg, logger, router)
}

// buildService assembles the providers and pipeline behind the HTTP
// surface.
func buildService(cfg *platformconfig.Config, logger *platformlogging.Logger) (*httpanalysis.Service, error) {
	describer, err := caption.Create(&cfg.Caption)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "bootstrap", "caption provider", err)
	}

	chatClient, err := llm.Create(&cfg.LLM)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "bootstrap", "llm provider", err)
	}
	generator := textgen.NewGenerator(chatClient, &cfg.LLM)

	scopes, err := scope.NewManager(cfg.Upload.Workspace, logger)
	if err != nil {
		return nil, err
	}

	flows := pipeline.New(
		describer,
		generator,
		colors.NewAnalyzer(cfg.Colors.Clusters, cfg.Colors.SampleDim),
		logger,
	)

	return httpanalysis.NewService(
		cfg,
		logger,
		flows,
		scopes,
		fetch.NewFetcher(cfg.Upload.MaxFileSize),
		speech.NewEdge(cfg.Speech.Voice),
	)
}

// serve runs the HTTP server until the context is cancelled or a
// signal arrives, then shuts it down gracefully.
func serve(ctx context.Context, cfg *platformconfig.Config, logger *platformlogging.Logger, router *httptransport.Router) error {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.IP, cfg.Server.Port),
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		logger.InfoTag("BOOT", "listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.InfoTag("BOOT", "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
