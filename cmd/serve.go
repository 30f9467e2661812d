package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/httpapi"
	"github.com/tlegrand/emploi-assistant/internal/recommend"
	"github.com/tlegrand/emploi-assistant/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultAddress  = ":8080"
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default "+defaultAddress+")")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the llm client", zap.Error(err))
	}

	registry := newRegistry(config, logger)
	searcher := aggregator.New(registry, logger)

	api := httpapi.NewServer(httpapi.Deps{
		Analyzer:    cv.NewAnalyzer(generator, logger),
		Searcher:    searcher,
		Enricher:    aggregator.NewEnricher(generator, logger),
		Recommender: recommend.NewRecommender(generator, logger),
		Logger:      logger,
	})

	address := listenAddress(cmd, config.Server)

	server := &http.Server{
		Addr:              address,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening",
			zap.String("address", address),
			zap.Strings("sources", sourceNames(registry)),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func sourceNames(registry *source.Registry) []string {
	available := registry.Available()
	names := make([]string, 0, len(available))
	for _, src := range available {
		names = append(names, src.String())
	}
	return names
}

func listenAddress(cmd *cobra.Command, cfg *ServerConfig) string {
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		return address
	}
	if cfg != nil && cfg.Address != "" {
		return cfg.Address
	}
	return defaultAddress
}
