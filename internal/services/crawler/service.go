package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
)

// ErrNoBrowserSession is returned when the session manager hands back an
// absent handle; the crawl stage fails rather than proceeding.
var ErrNoBrowserSession = errors.New("no browser session available, crawling unavailable")

// Service enumerates a campaign's posts pages through the remote browser
// session and extracts downloadable asset references from each page.
type Service struct {
	browser   interfaces.BrowserSessionService
	events    interfaces.EventService
	cookies   *models.SessionCookies
	limiter   *RateLimiter
	extractor assetExtractor
	config    common.CrawlerConfig
	baseURL   string
	logger    arbor.ILogger
}

// NewService creates the posts crawler
func NewService(
	browser interfaces.BrowserSessionService,
	events interfaces.EventService,
	cookies *models.SessionCookies,
	baseURL string,
	config common.CrawlerConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		browser: browser,
		events:  events,
		cookies: cookies,
		limiter: NewRateLimiter(config.RequestDelay),
		config:  config,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Crawl walks the campaign's posts pages and returns the ordered collection
// of asset references found. Raises post_crawl_start/end, new_crawled_url
// and crawler_message events while executing.
func (s *Service) Crawl(ctx context.Context, campaign *models.CampaignInfo, settings *models.RunSettings, outputDir string) ([]*models.CrawledUrl, error) {
	session, err := s.browser.Acquire(ctx)
	if err != nil {
		s.message(ctx, models.SeverityError, fmt.Sprintf("Browser session unavailable: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrNoBrowserSession, err)
	}
	if !session.Live() {
		s.message(ctx, models.SeverityError, "Browser session manager returned an absent handle")
		return nil, ErrNoBrowserSession
	}

	s.events.Publish(ctx, interfaces.Event{Type: interfaces.EventPostCrawlStart})

	if err := s.injectCookies(session); err != nil {
		return nil, fmt.Errorf("failed to inject session cookies into browser: %w", err)
	}

	var collected []*models.CrawledUrl
	seen := make(map[string]bool)

	collect := func(asset *models.CrawledUrl) {
		if seen[asset.Url] {
			return
		}
		seen[asset.Url] = true
		collected = append(collected, asset)
		s.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventNewCrawledUrl,
			Payload: models.NewCrawledUrlPayload{Url: asset},
		})
	}

	if s.config.IncludeAvatars {
		if campaign.AvatarURL != "" {
			collect(&models.CrawledUrl{Url: campaign.AvatarURL, Filename: "avatar" + extension(campaign.AvatarURL)})
		}
		if campaign.CoverURL != "" {
			collect(&models.CrawledUrl{Url: campaign.CoverURL, Filename: "cover" + extension(campaign.CoverURL)})
		}
	}

	page := 1
	for {
		if s.config.MaxPages > 0 && page > s.config.MaxPages {
			s.message(ctx, models.SeverityWarning, fmt.Sprintf("Stopping at configured page limit (%d)", s.config.MaxPages))
			break
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		pageURL := s.postsPageURL(campaign.Id, page)
		pageHTML, hasNext, err := s.loadPostsPage(session, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load posts page %d: %w", page, err)
		}

		assets, err := s.extractor.Extract(pageHTML)
		if err != nil {
			return nil, fmt.Errorf("failed to parse posts page %d: %w", page, err)
		}
		for _, asset := range assets {
			collect(asset)
		}

		s.message(ctx, models.SeverityInfo, fmt.Sprintf("Crawled posts page %d, %d urls collected", page, len(collected)))

		if !hasNext {
			break
		}
		page++
	}

	s.events.Publish(ctx, interfaces.Event{Type: interfaces.EventPostCrawlEnd})

	s.logger.Info().
		Int64("campaign_id", campaign.Id).
		Int("pages", page).
		Int("urls", len(collected)).
		Msg("Crawl finished")

	return collected, nil
}

// loadPostsPage navigates the warm page to the given URL, waits for the
// post feed to render, and returns the page HTML plus whether a next-page
// link is present.
func (s *Service) loadPostsPage(session *models.BrowserSession, pageURL string) (string, bool, error) {
	navCtx := session.Page.Ctx
	var cancel context.CancelFunc
	if s.config.PageTimeout > 0 {
		navCtx, cancel = context.WithTimeout(navCtx, s.config.PageTimeout)
		defer cancel()
	}

	var pageHTML string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		return "", false, err
	}

	return pageHTML, hasNextPageLink(pageHTML), nil
}

// injectCookies seeds the remote browser with the platform session cookies
// so post pages render with the caller's pledges visible.
func (s *Service) injectCookies(session *models.BrowserSession) error {
	if s.cookies.Empty() {
		return nil
	}

	cookies := s.cookies.HTTPCookies()
	return chromedp.Run(session.Page.Ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			err := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HttpOnly).
				WithSecure(true).
				Do(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

// postsPageURL builds the posts listing URL for a campaign page number.
func (s *Service) postsPageURL(campaignID int64, page int) string {
	if page <= 1 {
		return fmt.Sprintf("%s/posts?campaign_id=%d", s.baseURL, campaignID)
	}
	return fmt.Sprintf("%s/posts?campaign_id=%d&page=%d", s.baseURL, campaignID, page)
}

// message publishes a crawler_message event.
func (s *Service) message(ctx context.Context, severity models.MessageSeverity, text string) {
	s.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventCrawlerMessage,
		Payload: models.CrawlerMessagePayload{Text: text, Severity: severity},
	})
}
