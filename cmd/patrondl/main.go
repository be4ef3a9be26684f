// -----------------------------------------------------------------------
// patrondl downloads the publicly reachable assets of a creator campaign
// on behalf of a logged-in supporter. Usage:
//
//	patrondl [flags] <creator-url>
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/app"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/models"
	"github.com/ternarybob/patrondl/internal/services/events"
)

var (
	// Command-line flags
	configFile   = flag.String("config", "", "Configuration file path")
	configFileC  = flag.String("c", "", "Configuration file path (shorthand)")
	downloadDir  = flag.String("dir", "", "Download directory (overrides config)")
	overwrite    = flag.Bool("overwrite", false, "Re-download files that already exist")
	sessionId    = flag.String("session", "", "Session cookie value (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("patrondl %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	creatorURL := flag.Arg(0)

	// Merge config flags (shorthand takes precedence)
	configPath := *configFile
	if *configFileC != "" {
		configPath = *configFileC
	}

	// Auto-discover config file if not specified
	if configPath == "" {
		if _, err := os.Stat("patrondl.toml"); err == nil {
			configPath = "patrondl.toml"
		}
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error
	config, err = common.LoadFromFile(configPath)
	if err != nil {
		// Console-only logger for failures before the real one exists
		common.GetLogger().Fatal().Str("path", configPath).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, *downloadDir, *overwrite)
	if *sessionId != "" {
		config.Auth.SessionId = *sessionId
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if config.IsProduction() && config.Logging.Level == "debug" {
		logger.Warn().Msg("Debug logging enabled in production")
	}

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Mirror pipeline events into the log so the console shows progress
	if err := application.EventService.SubscribeAll(events.NewLoggerSubscriber(logger)); err != nil {
		logger.Fatal().Err(err).Msg("Failed to subscribe event logger")
	}

	// Cancel the run context on interrupt; in-flight stage calls observe
	// the cancellation at their next request
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn().Msg("Interrupt signal received, cancelling run")
		cancel()
	}()

	settings := &models.RunSettings{
		DownloadDirectory: config.Download.Directory,
		OverwriteFiles:    config.Download.OverwriteFiles,
	}

	if err := application.Orchestrator.Run(ctx, creatorURL, settings); err != nil {
		logger.Error().Err(err).Str("url", creatorURL).Msg("Run failed")
		application.Close()
		os.Exit(1)
	}

	logger.Info().Str("url", creatorURL).Msg("Run finished")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <creator-url>\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}
