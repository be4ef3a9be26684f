// -----------------------------------------------------------------------
// Package app wires the application together: configuration in, a ready
// orchestrator out. Every service is constructed here and nowhere else.
// -----------------------------------------------------------------------

package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/httpclient"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
	"github.com/ternarybob/patrondl/internal/orchestrator"
	"github.com/ternarybob/patrondl/internal/services/browser"
	"github.com/ternarybob/patrondl/internal/services/crawler"
	"github.com/ternarybob/patrondl/internal/services/downloader"
	"github.com/ternarybob/patrondl/internal/services/events"
	"github.com/ternarybob/patrondl/internal/services/identifiers"
	"github.com/ternarybob/patrondl/internal/services/metadata"
	"github.com/ternarybob/patrondl/internal/services/plugins"
	"github.com/ternarybob/patrondl/internal/services/validation"
)

// validationTimeout bounds the credential probe; it is deliberately shorter
// than the download timeout since the probe is a single small request.
const validationTimeout = 30 * time.Second

// downloadRoot returns where campaign-derived output directories are
// created when no explicit download directory is configured: a download/
// folder next to the executable, falling back to the working directory.
func downloadRoot() string {
	execPath, err := os.Executable()
	if err != nil {
		return "download"
	}
	return filepath.Join(filepath.Dir(execPath), "download")
}

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Event-driven services
	EventService interfaces.EventService

	// Browser session (shared by the crawler, closed after the crawl stage)
	BrowserService interfaces.BrowserSessionService

	// Pipeline stages
	ValidationService interfaces.CredentialValidator
	IdService         *identifiers.Resolver
	MetadataService   *metadata.Resolver
	CrawlerService    *crawler.Service
	DownloadService   *downloader.Service
	PluginManager     *plugins.Manager

	// Run orchestration
	Orchestrator *orchestrator.Orchestrator
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	cookies := &models.SessionCookies{
		SessionId: cfg.Auth.SessionId,
		Domain:    cfg.Auth.CookieDomain,
	}

	// One cookie-jar client serves every plain-HTTP stage; the browser
	// session gets the cookies injected separately.
	apiClient, err := httpclient.NewClientWithCookies(cfg.Platform.BaseURL, cookies, cfg.Download.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build http client: %w", err)
	}

	app.EventService = events.NewService(logger)
	app.BrowserService = browser.NewService(cfg.Browser, logger)

	app.ValidationService = validation.NewCookieValidator(cfg.Platform.BaseURL, validationTimeout, logger)
	app.IdService = identifiers.NewResolver(apiClient, logger)
	app.MetadataService = metadata.NewResolver(cfg.Platform.BaseURL, apiClient, logger)

	app.CrawlerService = crawler.NewService(
		app.BrowserService,
		app.EventService,
		cookies,
		cfg.Platform.BaseURL,
		cfg.Crawler,
		logger,
	)

	app.DownloadService = downloader.NewService(apiClient, app.EventService, cfg.Download, logger)
	app.PluginManager = plugins.NewManager(logger)

	app.Orchestrator = orchestrator.New(
		cfg.Platform.BaseURL,
		downloadRoot(),
		cookies,
		orchestrator.Collaborators{
			Validator:    app.ValidationService,
			IdResolver:   app.IdService,
			InfoResolver: app.MetadataService,
			Crawler:      app.CrawlerService,
			Downloader:   app.DownloadService,
			Plugins:      app.PluginManager,
			Browser:      app.BrowserService,
			Events:       app.EventService,
		},
		logger,
	)

	logger.Info().
		Str("base_url", cfg.Platform.BaseURL).
		Str("browser_endpoint", cfg.Browser.DebugEndpoint).
		Msg("Application initialization complete")

	return app, nil
}

// Close releases application resources in reverse construction order
func (a *App) Close() error {
	var firstErr error

	if a.BrowserService != nil {
		if err := a.BrowserService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser session")
			firstErr = err
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing event service")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
