package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/models"
)

// ErrBrowserUnavailable is returned when the DevTools endpoint cannot be
// reached. Callers must treat the absent session handle as "crawling
// unavailable" and fail their own stage.
var ErrBrowserUnavailable = errors.New("browser debugging endpoint unavailable")

// Service owns the lifecycle of the single remote browser session: stray
// process cleanup at construction, lazy connect-or-reuse, teardown between
// the crawl and download stages. It has no pipeline knowledge.
type Service struct {
	endpoint       string
	connectTimeout time.Duration
	logger         arbor.ILogger

	mu          sync.Mutex
	session     *models.BrowserSession
	allocCancel context.CancelFunc
}

// NewService creates the session manager and performs pre-launch hygiene:
// browser processes launched from the application's own install directory by
// a prior run are terminated. Hygiene failures are logged per-process and
// never abort construction.
func NewService(config common.BrowserConfig, logger arbor.ILogger) *Service {
	s := &Service{
		endpoint:       config.DebugEndpoint,
		connectTimeout: config.ConnectTimeout,
		logger:         logger,
	}

	if err := s.cleanupStrayBrowsers(config.ExecutableName); err != nil {
		logger.Warn().
			Err(err).
			Str("executable", config.ExecutableName).
			Msg("Stray browser cleanup failed (non-critical)")
	}

	return s
}

// Acquire returns the cached session while it remains live, otherwise
// connects to the debugging endpoint, opens one throwaway page to keep the
// session warm, and caches the handle. A dead prior session is replaced
// transparently. On connection failure the error is logged as fatal and an
// absent handle is returned alongside ErrBrowserUnavailable.
func (s *Service) Acquire(ctx context.Context) (*models.BrowserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Live() && s.session.Page.Ctx.Err() == nil {
		s.logger.Debug().
			Str("endpoint", s.endpoint).
			Msg("Reusing live browser session")
		return s.session, nil
	}

	// Prior session is gone; drop its handle before reconnecting
	s.teardownLocked()

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), s.endpoint)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)

	connectCtx := pageCtx
	var connectCancel context.CancelFunc
	if s.connectTimeout > 0 {
		connectCtx, connectCancel = context.WithTimeout(pageCtx, s.connectTimeout)
		defer connectCancel()
	}

	// Opening about:blank both verifies the protocol connection and leaves a
	// warm page attached to the session
	if err := chromedp.Run(connectCtx, chromedp.Navigate("about:blank")); err != nil {
		pageCancel()
		allocCancel()
		s.logger.Error().
			Err(err).
			Str("endpoint", s.endpoint).
			Msg("Fatal: unable to connect to browser debugging endpoint")
		return nil, ErrBrowserUnavailable
	}

	s.session = &models.BrowserSession{
		Endpoint:  s.endpoint,
		Connected: true,
		Page: &models.PageHandle{
			Ctx:    pageCtx,
			Cancel: pageCancel,
		},
	}
	s.allocCancel = allocCancel

	s.logger.Info().
		Str("endpoint", s.endpoint).
		Msg("Browser session established")

	return s.session, nil
}

// Close tears down the current session handle. Idempotent and safe to call
// when no session exists. The remote browser process is left running; the
// next construction's hygiene pass handles cleanup.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	s.teardownLocked()
	s.logger.Info().
		Str("endpoint", s.endpoint).
		Msg("Browser session closed")

	return nil
}

// teardownLocked releases the cached session. Caller holds s.mu.
func (s *Service) teardownLocked() {
	if s.session != nil {
		s.session.Connected = false
		if s.session.Page != nil && s.session.Page.Cancel != nil {
			s.session.Page.Cancel()
		}
		s.session = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
}
