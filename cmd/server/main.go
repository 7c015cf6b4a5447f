// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/smnm1998/woowacourse-artune/internal/api/rest"
	appemotion "github.com/smnm1998/woowacourse-artune/internal/app/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/app/preview"
	"github.com/smnm1998/woowacourse-artune/internal/app/recommend"
	"github.com/smnm1998/woowacourse-artune/internal/infra/config"
	"github.com/smnm1998/woowacourse-artune/internal/infra/itunes"
	"github.com/smnm1998/woowacourse-artune/internal/infra/logger"
	"github.com/smnm1998/woowacourse-artune/internal/infra/openai"
	"github.com/smnm1998/woowacourse-artune/internal/infra/spotify"
)

var (
	app        = kingpin.New("artune-server", "artune emotion music server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-strategies command
	listStrategiesCmd = app.Command("list-strategies", "List available retrieval strategies and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listStrategiesCmd.FullCommand() {
		printStrategies()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	// Catalog client
	catalog, err := spotify.New(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		Market:       cfg.Spotify.Market,
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}
	if err := catalog.Authenticate(ctx); err != nil {
		return fmt.Errorf("catalog authentication failed: %w", err)
	}

	// Retrieval strategy
	strategy, err := recommend.NewStrategyFromConfig(cfg, catalog)
	if err != nil {
		return fmt.Errorf("failed to create retrieval strategy: %w", err)
	}

	// Preview resolver
	resolver := preview.NewResolver(itunes.New(), preview.Config{
		Countries:     cfg.Preview.Countries,
		MaxConcurrent: cfg.Preview.MaxConcurrent,
		MaxJitter:     time.Duration(cfg.Preview.JitterMs) * time.Millisecond,
	})

	// Recommendation orchestrator
	orchestrator, err := recommend.NewOrchestrator(catalog, strategy, resolver, recommend.Options{
		Limit:           cfg.Recommend.Limit,
		MaxPerArtist:    cfg.Recommend.MaxPerArtist,
		MinPopularity:   cfg.Recommend.MinPopularity,
		MinResultCount:  cfg.Recommend.MinResultCount,
		InstrumentalMax: cfg.Recommend.InstrumentalMax,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	// Classifier and artwork clients
	classifier, err := openai.NewClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %w", err)
	}
	artwork, err := openai.NewArtworkGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.ImageModel)
	if err != nil {
		return fmt.Errorf("failed to create artwork generator: %w", err)
	}

	// Analysis coordinator
	coordinator, err := appemotion.NewCoordinator(classifier, orchestrator, artwork)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}

	// HTTP handler
	handler, err := rest.NewHandler(coordinator, orchestrator, cfg.Server.AllowedOrigins)
	if err != nil {
		return fmt.Errorf("failed to create api handler: %w", err)
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// printStrategies prints available retrieval strategies.
func printStrategies() {
	fmt.Println("Available Strategies:")
	types := recommend.StrategyTypes()
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s - %s\n", name, types[name])
	}
}
