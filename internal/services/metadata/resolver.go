package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/models"
)

// campaignResponse mirrors the platform's campaign API envelope. Only the
// attributes the pipeline needs are decoded.
type campaignResponse struct {
	Data struct {
		Id         string `json:"id"`
		Attributes struct {
			Name           string `json:"name"`
			CreationName   string `json:"creation_name"`
			AvatarPhotoURL string `json:"avatar_photo_url"`
			CoverPhotoURL  string `json:"cover_photo_url"`
		} `json:"attributes"`
	} `json:"data"`
}

// Resolver retrieves campaign metadata from the platform API.
type Resolver struct {
	baseURL string
	client  *http.Client
	logger  arbor.ILogger
}

// NewResolver creates a campaign metadata resolver using the given
// authenticated HTTP client.
func NewResolver(baseURL string, client *http.Client, logger arbor.ILogger) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Resolve fetches campaign attributes for the given id.
func (r *Resolver) Resolve(ctx context.Context, campaignID int64) (*models.CampaignInfo, error) {
	url := fmt.Sprintf("%s/api/campaigns/%d", r.baseURL, campaignID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build campaign request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign %d: %w", campaignID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("campaign API returned status %d for campaign %d", resp.StatusCode, campaignID)
	}

	var decoded campaignResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode campaign %d response: %w", campaignID, err)
	}

	// The API serializes the id as a string; fall back to the requested id
	// when the envelope omits it
	id := campaignID
	if decoded.Data.Id != "" {
		parsed, err := strconv.ParseInt(decoded.Data.Id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("campaign API returned malformed id %q: %w", decoded.Data.Id, err)
		}
		id = parsed
	}

	info := &models.CampaignInfo{
		Id:           id,
		Name:         decoded.Data.Attributes.Name,
		CreationName: decoded.Data.Attributes.CreationName,
		AvatarURL:    decoded.Data.Attributes.AvatarPhotoURL,
		CoverURL:     decoded.Data.Attributes.CoverPhotoURL,
	}

	r.logger.Debug().
		Int64("campaign_id", info.Id).
		Str("name", info.Name).
		Msg("Retrieved campaign info")

	return info, nil
}
