package interfaces

import (
	"context"

	"github.com/ternarybob/patrondl/internal/models"
)

// CampaignIdNotFound is the sentinel returned by CampaignIdResolver when the
// URL is well-formed but no campaign could be located behind it.
const CampaignIdNotFound int64 = -1

// Initializable marks a collaborator that needs one-time initialization
// before its first run. The orchestrator invokes Init at most once per
// process lifetime, regardless of how many runs execute.
type Initializable interface {
	Init(ctx context.Context) error
}

// CredentialValidator checks that the session credentials are still accepted
// by the platform before any pipeline stage runs.
type CredentialValidator interface {
	Validate(ctx context.Context, cookies *models.SessionCookies) error
}

// CampaignIdResolver resolves a creator URL to a numeric campaign id, or the
// CampaignIdNotFound sentinel when the page carries no campaign reference.
type CampaignIdResolver interface {
	Resolve(ctx context.Context, url string) (int64, error)
}

// CampaignInfoResolver retrieves campaign metadata for a resolved id.
type CampaignInfoResolver interface {
	Resolve(ctx context.Context, campaignID int64) (*models.CampaignInfo, error)
}

// PageCrawler enumerates a campaign's posts and extracts downloadable asset
// references. It raises post_crawl_start/end, new_crawled_url and
// crawler_message events while executing.
type PageCrawler interface {
	Crawl(ctx context.Context, campaign *models.CampaignInfo, settings *models.RunSettings, outputDir string) ([]*models.CrawledUrl, error)
}

// DownloadManager fetches crawled asset URLs to the output directory,
// raising file_downloaded events as files land on disk.
type DownloadManager interface {
	// BeforeStart is the one-shot pre-run hook invoked before credential validation
	BeforeStart(ctx context.Context) error

	Download(ctx context.Context, urls []*models.CrawledUrl, settings *models.RunSettings, outputDir string) error
}

// PluginManager owns downloader plugins and their pre-run hooks.
type PluginManager interface {
	BeforeStart(ctx context.Context) error
}

// BrowserSessionService owns the lifecycle of the single remote browser
// session: pre-launch hygiene, lazy connect-or-reuse, teardown.
type BrowserSessionService interface {
	// Acquire returns the cached live session, or connects a new one.
	// An absent handle means crawling is unavailable.
	Acquire(ctx context.Context) (*models.BrowserSession, error)

	// Close tears down the current session. Idempotent; does not terminate
	// the remote browser process.
	Close() error
}
