package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/patrondl/internal/models"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewClientWithCookies creates an HTTP client with a cookie jar seeded from
// the session credentials. Cookies are grouped by their declared domain so
// the jar accepts each one against a matching URL.
func NewClientWithCookies(baseURL string, cookies *models.SessionCookies, timeout time.Duration) (*http.Client, error) {
	if cookies.Empty() {
		return NewDefaultHTTPClient(timeout), nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}

	parsedBase, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// Group cookies by domain so each is set against a URL the jar accepts
	cookiesByDomain := make(map[string][]*http.Cookie)
	for _, c := range cookies.HTTPCookies() {
		domain := strings.TrimPrefix(c.Domain, ".")
		if domain == "" {
			domain = parsedBase.Host
		}
		cookiesByDomain[domain] = append(cookiesByDomain[domain], c)
	}

	for domain, domainCookies := range cookiesByDomain {
		domainURL, err := url.Parse(fmt.Sprintf("%s://%s/", parsedBase.Scheme, domain))
		if err != nil {
			continue
		}
		client.Jar.SetCookies(domainURL, domainCookies)
	}

	return client, nil
}
