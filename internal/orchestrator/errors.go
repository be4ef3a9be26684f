package orchestrator

import "errors"

var (
	// ErrInvalidURLFormat is returned when the target URL is empty, lies
	// outside the platform, or matches no accepted creator-reference form.
	ErrInvalidURLFormat = errors.New("invalid creator url format")

	// ErrAlreadyRunning is returned when Run is called while another run is
	// active on the same orchestrator instance.
	ErrAlreadyRunning = errors.New("a run is already in progress")

	// ErrCampaignNotFound is returned when the resolver reports no campaign
	// behind a well-formed creator URL.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrDirectoryCreation wraps any filesystem failure while resolving or
	// creating the output directory.
	ErrDirectoryCreation = errors.New("unable to create download directory")
)
