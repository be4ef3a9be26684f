package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
	"golang.org/x/time/rate"
)

// Service fetches crawled asset URLs to the output directory over plain
// HTTP. Downloads run sequentially with a global rate limit; each completed
// file raises a file_downloaded event.
type Service struct {
	client  *http.Client
	events  interfaces.EventService
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewService creates the download manager
func NewService(client *http.Client, events interfaces.EventService, config common.DownloadConfig, logger arbor.ILogger) *Service {
	return &Service{
		client:  client,
		events:  events,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), 1),
		logger:  logger,
	}
}

// BeforeStart is the pre-run hook invoked by the orchestrator before
// credential validation.
func (s *Service) BeforeStart(ctx context.Context) error {
	s.logger.Debug().Msg("Download manager ready")
	return nil
}

// Download fetches each asset to the output directory. Existing files are
// skipped unless settings request overwriting. Individual asset failures
// are logged and counted but do not abort the remaining downloads.
func (s *Service) Download(ctx context.Context, urls []*models.CrawledUrl, settings *models.RunSettings, outputDir string) error {
	overwrite := settings != nil && settings.OverwriteFiles

	downloaded, skipped, failed := 0, 0, 0
	for _, asset := range urls {
		localPath := filepath.Join(outputDir, LocalFilename(asset))

		if !overwrite {
			if _, err := os.Stat(localPath); err == nil {
				s.logger.Debug().
					Str("local_path", localPath).
					Msg("File exists, skipping")
				skipped++
				continue
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := s.fetch(ctx, asset.Url, localPath); err != nil {
			s.logger.Warn().
				Err(err).
				Str("url", asset.Url).
				Msg("Asset download failed")
			failed++
			continue
		}
		downloaded++

		s.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventFileDownloaded,
			Payload: models.FileDownloadedPayload{Url: asset.Url, LocalPath: localPath},
		})
	}

	s.logger.Info().
		Int("downloaded", downloaded).
		Int("skipped", skipped).
		Int("failed", failed).
		Str("output_dir", outputDir).
		Msg("Download stage finished")

	if failed > 0 && downloaded == 0 && skipped == 0 {
		return fmt.Errorf("all %d downloads failed", failed)
	}
	return nil
}

// fetch downloads a single URL to localPath via a temp file so partially
// written files never land under the final name.
func (s *Service) fetch(ctx context.Context, url, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	tmpPath := localPath + ".part-" + uuid.New().String()[:8]
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	return os.Rename(tmpPath, localPath)
}

// LocalFilename returns the sanitized filename an asset will be stored
// under. Falls back to the URL path basename, then to a generated name.
func LocalFilename(asset *models.CrawledUrl) string {
	name := asset.Filename
	if name == "" {
		if idx := strings.LastIndex(asset.Url, "/"); idx >= 0 {
			name = asset.Url[idx+1:]
		}
		if idx := strings.IndexAny(name, "?#"); idx >= 0 {
			name = name[:idx]
		}
	}

	name = sanitizeFilename(name)
	if name == "" {
		name = "asset-" + uuid.New().String()[:8]
	}
	return name
}

// sanitizeFilename strips characters invalid on the host filesystem.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(`\/:*?"<>|`, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
