package models

// RunStatus represents the externally observable state of the run pipeline.
// Exactly one status is current at any time; a run advances through the
// sequence Ready -> Initializing -> RetrievingCampaignInfo -> Crawling ->
// Downloading -> Done and always returns to Ready on exit.
type RunStatus string

const (
	StatusReady                  RunStatus = "ready"
	StatusInitializing           RunStatus = "initializing"
	StatusRetrievingCampaignInfo RunStatus = "retrieving_campaign_info"
	StatusCrawling               RunStatus = "crawling"
	StatusDownloading            RunStatus = "downloading"
	StatusDone                   RunStatus = "done"
)

// String returns the status name for logging.
func (s RunStatus) String() string {
	return string(s)
}
