package events

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
)

// NewLoggerSubscriber returns a handler that mirrors pipeline events into
// the log. Wired by the CLI so a run is observable without any other
// subscriber.
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		switch payload := event.Payload.(type) {
		case models.StatusChangedPayload:
			logger.Info().
				Str("status", payload.Status.String()).
				Msg("Run status changed")

		case models.NewCrawledUrlPayload:
			logger.Info().
				Str("url", payload.Url.Url).
				Int64("post_id", payload.Url.PostId).
				Msg("Crawled new asset url")

		case models.CrawlerMessagePayload:
			switch payload.Severity {
			case models.SeverityError:
				logger.Error().Msg(payload.Text)
			case models.SeverityWarning:
				logger.Warn().Msg(payload.Text)
			default:
				logger.Info().Msg(payload.Text)
			}

		case models.FileDownloadedPayload:
			logger.Info().
				Str("url", payload.Url).
				Str("local_path", payload.LocalPath).
				Msg("File downloaded")

		default:
			logger.Debug().
				Str("event_type", string(event.Type)).
				Msg("Event received")
		}

		return nil
	}
}
