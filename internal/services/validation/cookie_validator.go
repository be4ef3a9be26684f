package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/httpclient"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
)

var (
	// ErrNoSessionCookie is returned when no session credential is configured.
	ErrNoSessionCookie = errors.New("no session_id cookie configured")

	// ErrCookiesRejected is returned when the platform refuses the session.
	ErrCookiesRejected = errors.New("session cookies rejected by the platform")
)

// currentUserPath is the authenticated endpoint used to probe the session.
const currentUserPath = "/api/current_user"

// CookieValidator checks session credentials against the platform's
// current-user endpoint using a cookie-jar client.
type CookieValidator struct {
	baseURL string
	timeout time.Duration
	logger  arbor.ILogger
}

// NewCookieValidator creates a credential validator for the given platform
func NewCookieValidator(baseURL string, timeout time.Duration, logger arbor.ILogger) interfaces.CredentialValidator {
	return &CookieValidator{
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

// Validate probes the current-user endpoint with the session cookies. Any
// outcome other than a 2xx response fails validation.
func (v *CookieValidator) Validate(ctx context.Context, cookies *models.SessionCookies) error {
	if cookies.Empty() {
		return ErrNoSessionCookie
	}

	client, err := httpclient.NewClientWithCookies(v.baseURL, cookies, v.timeout)
	if err != nil {
		return fmt.Errorf("failed to build authenticated client: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+currentUserPath, nil)
	if err != nil {
		return fmt.Errorf("failed to build validation request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("credential validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Warn().
			Int("status_code", resp.StatusCode).
			Msg("Current-user probe rejected")
		return fmt.Errorf("%w: current_user returned %d", ErrCookiesRejected, resp.StatusCode)
	}

	v.logger.Debug().Msg("Session cookies validated")
	return nil
}
