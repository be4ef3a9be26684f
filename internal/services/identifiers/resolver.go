// -----------------------------------------------------------------------
// Package identifiers resolves creator URLs to numeric campaign ids by
// scraping campaign references out of the creator's landing page.
// -----------------------------------------------------------------------

package identifiers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/interfaces"
)

// maxPageBytes caps how much of the creator page is read while searching
// for a campaign reference.
const maxPageBytes = 4 * 1024 * 1024

// Resolver extracts the campaign id behind a creator URL. Every accepted
// URL form ultimately resolves through the page body, since the numeric
// forms carry a user id rather than a campaign id.
type Resolver struct {
	patterns []*regexp.Regexp
	client   *http.Client
	logger   arbor.ILogger
}

// NewResolver creates a campaign id resolver using the given authenticated
// HTTP client.
func NewResolver(client *http.Client, logger arbor.ILogger) *Resolver {
	return &Resolver{
		patterns: []*regexp.Regexp{
			// Embedded bootstrap JSON: "campaign_id": "12345" or 12345
			regexp.MustCompile(`"campaign_id"\s*:\s*"?(\d+)`),

			// Campaign media CDN paths: .../patreon-media/p/campaign/12345/...
			regexp.MustCompile(`patreon-media/p/campaign/(\d+)`),

			// Campaign API references: /api/campaigns/12345
			regexp.MustCompile(`/api/campaigns/(\d+)`),
		},
		client: client,
		logger: logger,
	}
}

// Resolve fetches the creator page and extracts the first campaign
// reference found in its body. Returns the CampaignIdNotFound sentinel with
// a nil error when the page loads but carries no campaign reference.
func (r *Resolver) Resolve(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return interfaces.CampaignIdNotFound, fmt.Errorf("failed to build page request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return interfaces.CampaignIdNotFound, fmt.Errorf("failed to fetch creator page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.logger.Warn().
			Str("url", url).
			Msg("Creator page not found")
		return interfaces.CampaignIdNotFound, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return interfaces.CampaignIdNotFound, fmt.Errorf("creator page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return interfaces.CampaignIdNotFound, fmt.Errorf("failed to read creator page: %w", err)
	}

	id := r.ExtractFromPage(string(body))
	if id == interfaces.CampaignIdNotFound {
		r.logger.Warn().
			Str("url", url).
			Msg("No campaign reference found on creator page")
	} else {
		r.logger.Debug().
			Str("url", url).
			Int64("campaign_id", id).
			Msg("Resolved campaign id")
	}

	return id, nil
}

// ExtractFromPage scans page content for the first campaign reference.
func (r *Resolver) ExtractFromPage(content string) int64 {
	for _, pattern := range r.patterns {
		match := pattern.FindStringSubmatch(content)
		if len(match) < 2 {
			continue
		}
		id, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		return id
	}
	return interfaces.CampaignIdNotFound
}
