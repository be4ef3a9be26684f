package models

// CrawledUrl is a downloadable asset reference produced by the crawl stage
// and consumed by the download stage. The orchestrator transports the
// collection between stages without inspecting it.
type CrawledUrl struct {
	// Url is the absolute asset URL.
	Url string `json:"url"`

	// Filename is the suggested local filename. Empty means derive from Url.
	Filename string `json:"filename,omitempty"`

	// PostId identifies the post the asset was found on, when known.
	PostId int64 `json:"post_id,omitempty"`
}
