// -----------------------------------------------------------------------
// Package orchestrator sequences the retrieval pipeline: validate session
// cookies, resolve the campaign behind a creator URL, crawl its posts for
// asset references, then download the assets. It owns the single-run and
// single-initialization guards and the externally observable status
// protocol; every stage is delegated to a collaborator.
// -----------------------------------------------------------------------

package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
)

// Collaborators bundles the stage implementations the orchestrator
// delegates to.
type Collaborators struct {
	Validator    interfaces.CredentialValidator
	IdResolver   interfaces.CampaignIdResolver
	InfoResolver interfaces.CampaignInfoResolver
	Crawler      interfaces.PageCrawler
	Downloader   interfaces.DownloadManager
	Plugins      interfaces.PluginManager
	Browser      interfaces.BrowserSessionService
	Events       interfaces.EventService
}

// Orchestrator is the run state machine. At most one run is active per
// instance at any time; collaborator initialization happens at most once
// per instance regardless of how many runs execute.
type Orchestrator struct {
	baseURL      string
	downloadRoot string
	urlPatterns  *creatorURLPatterns
	cookies      *models.SessionCookies

	validator    interfaces.CredentialValidator
	idResolver   interfaces.CampaignIdResolver
	infoResolver interfaces.CampaignInfoResolver
	crawler      interfaces.PageCrawler
	downloader   interfaces.DownloadManager
	plugins      interfaces.PluginManager
	browser      interfaces.BrowserSessionService
	events       interfaces.EventService

	state  *runState
	logger arbor.ILogger
}

// New creates a run orchestrator. baseURL is the platform base URL the
// target must lie under; downloadRoot is where derived output directories
// are created.
func New(baseURL, downloadRoot string, cookies *models.SessionCookies, c Collaborators, logger arbor.ILogger) *Orchestrator {
	return &Orchestrator{
		baseURL:      baseURL,
		downloadRoot: downloadRoot,
		urlPatterns:  newCreatorURLPatterns(baseURL),
		cookies:      cookies,
		validator:    c.Validator,
		idResolver:   c.IdResolver,
		infoResolver: c.InfoResolver,
		crawler:      c.Crawler,
		downloader:   c.Downloader,
		plugins:      c.Plugins,
		browser:      c.Browser,
		events:       c.Events,
		state:        newRunState(),
		logger:       logger,
	}
}

// Status returns the externally observable run status.
func (o *Orchestrator) Status() models.RunStatus {
	return o.state.currentStatus()
}

// Run executes the pipeline for one creator URL. Concurrent callers race
// only at the guard: the first proceeds, the rest fail immediately with
// ErrAlreadyRunning. Whatever the outcome, the status returns to Ready and
// the run-active flag is cleared before Run returns.
func (o *Orchestrator) Run(ctx context.Context, url string, settings *models.RunSettings) error {
	// Input validation happens before any guard or collaborator is touched;
	// a malformed URL leaves no trace
	target, err := o.validateCreatorURL(url)
	if err != nil {
		return err
	}

	if settings == nil {
		settings = &models.RunSettings{}
	}

	if !o.state.tryBeginRun() {
		o.logger.Warn().
			Str("url", target).
			Msg("Run rejected, another run is in progress")
		return ErrAlreadyRunning
	}

	log := o.logger.WithCorrelationId(uuid.New().String())

	defer func() {
		o.state.endRun()
		o.setStatus(ctx, log, models.StatusReady)
	}()

	if err := settings.Consume(); err != nil {
		log.Error().Err(err).Msg("Fatal: run settings rejected")
		return err
	}

	o.setStatus(ctx, log, models.StatusInitializing)

	if err := o.state.initOnce(func() error { return o.initializeCollaborators(ctx, log) }); err != nil {
		log.Error().Err(err).Msg("Fatal: collaborator initialization failed")
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := o.plugins.BeforeStart(ctx); err != nil {
		log.Error().Err(err).Msg("Fatal: plugin pre-start hook failed")
		return fmt.Errorf("plugin pre-start failed: %w", err)
	}
	if err := o.downloader.BeforeStart(ctx); err != nil {
		log.Error().Err(err).Msg("Fatal: download manager pre-start hook failed")
		return fmt.Errorf("download manager pre-start failed: %w", err)
	}

	if err := o.validator.Validate(ctx, o.cookies); err != nil {
		log.Error().Err(err).Msg("Fatal: session cookie validation failed")
		return fmt.Errorf("cookie validation failed: %w", err)
	}

	o.setStatus(ctx, log, models.StatusRetrievingCampaignInfo)

	campaignID, err := o.idResolver.Resolve(ctx, target)
	if err != nil {
		log.Error().Err(err).Str("url", target).Msg("Fatal: campaign id resolution failed")
		return fmt.Errorf("campaign id resolution failed: %w", err)
	}
	if campaignID == interfaces.CampaignIdNotFound {
		// The sentinel never silently continues into the pipeline
		log.Error().Str("url", target).Msg("Fatal: no campaign behind creator url")
		return fmt.Errorf("%w: %s", ErrCampaignNotFound, target)
	}

	campaign, err := o.infoResolver.Resolve(ctx, campaignID)
	if err != nil {
		log.Error().Err(err).Int64("campaign_id", campaignID).Msg("Fatal: campaign info retrieval failed")
		return fmt.Errorf("campaign info retrieval failed: %w", err)
	}

	log.Info().
		Int64("campaign_id", campaign.Id).
		Str("name", campaign.Name).
		Msg("Campaign resolved")

	outputDir, err := o.resolveOutputDirectory(settings, campaign)
	if err != nil {
		log.Error().Err(err).Msg("Fatal: output directory unavailable")
		return err
	}

	o.setStatus(ctx, log, models.StatusCrawling)

	urls, err := o.crawler.Crawl(ctx, campaign, settings, outputDir)
	if err != nil {
		log.Error().Err(err).Msg("Fatal: crawl stage failed")
		return fmt.Errorf("crawl stage failed: %w", err)
	}

	// The browser is needed only for crawling; downloading is pure HTTP
	if err := o.browser.Close(); err != nil {
		log.Warn().Err(err).Msg("Browser session close failed")
	}

	o.setStatus(ctx, log, models.StatusDownloading)

	if err := o.downloader.Download(ctx, urls, settings, outputDir); err != nil {
		log.Error().Err(err).Msg("Fatal: download stage failed")
		return fmt.Errorf("download stage failed: %w", err)
	}

	o.setStatus(ctx, log, models.StatusDone)

	log.Info().
		Int("urls", len(urls)).
		Str("output_dir", outputDir).
		Msg("Run completed")

	return nil
}

// initializeCollaborators performs the one-time initialization pass over
// collaborators that declare an Init hook.
func (o *Orchestrator) initializeCollaborators(ctx context.Context, log arbor.ILogger) error {
	collaborators := []interface{}{
		o.validator,
		o.idResolver,
		o.infoResolver,
		o.crawler,
		o.downloader,
		o.plugins,
	}

	for _, collaborator := range collaborators {
		init, ok := collaborator.(interfaces.Initializable)
		if !ok {
			continue
		}
		if err := init.Init(ctx); err != nil {
			return err
		}
	}

	log.Debug().Msg("Collaborators initialized")
	return nil
}

// setStatus advances the status and broadcasts the transition.
func (o *Orchestrator) setStatus(ctx context.Context, log arbor.ILogger, status models.RunStatus) {
	o.state.setStatus(status)

	log.Info().
		Str("status", status.String()).
		Msg("Run status changed")

	o.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventStatusChanged,
		Payload: models.StatusChangedPayload{Status: status},
	})
}
