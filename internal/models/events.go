package models

// MessageSeverity classifies crawler progress messages.
type MessageSeverity string

const (
	SeverityInfo    MessageSeverity = "info"
	SeverityWarning MessageSeverity = "warning"
	SeverityError   MessageSeverity = "error"
)

// StatusChangedPayload is the payload of a status_changed event.
type StatusChangedPayload struct {
	Status RunStatus `json:"status"`
}

// NewCrawledUrlPayload is the payload of a new_crawled_url event.
type NewCrawledUrlPayload struct {
	Url *CrawledUrl `json:"url"`
}

// CrawlerMessagePayload is the payload of a crawler_message event.
type CrawlerMessagePayload struct {
	Text     string          `json:"text"`
	Severity MessageSeverity `json:"severity"`
}

// FileDownloadedPayload is the payload of a file_downloaded event.
type FileDownloadedPayload struct {
	Url       string `json:"url"`
	LocalPath string `json:"local_path"`
}
