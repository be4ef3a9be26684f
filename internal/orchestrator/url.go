package orchestrator

import (
	"fmt"
	"regexp"
	"strings"
)

// creatorURLPatterns holds the accepted creator-reference forms, compiled
// against the configured platform base URL.
type creatorURLPatterns struct {
	patterns     []*regexp.Regexp
	descriptions []string
}

// newCreatorURLPatterns compiles the accepted URL forms: profile-by-id,
// the numeric-id query forms, and the vanity posts suffix.
func newCreatorURLPatterns(baseURL string) *creatorURLPatterns {
	base := regexp.QuoteMeta(baseURL)
	return &creatorURLPatterns{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^` + base + `/profile/creators\?u=\d+$`),
			regexp.MustCompile(`^` + base + `/user\?u=\d+$`),
			regexp.MustCompile(`^` + base + `/user/posts\?u=\d+$`),
			regexp.MustCompile(`^` + base + `/[a-z0-9][a-z0-9_.\-]*/posts$`),
		},
		descriptions: []string{
			baseURL + "/profile/creators?u=<id>",
			baseURL + "/user?u=<id>",
			baseURL + "/user/posts?u=<id>",
			baseURL + "/<creator>/posts",
		},
	}
}

// matches reports whether the normalized URL is an accepted creator form.
func (p *creatorURLPatterns) matches(url string) bool {
	for _, pattern := range p.patterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// validateCreatorURL normalizes and validates the target URL before any
// guard is acquired or any collaborator is touched. Returns the normalized
// (lowercased, trimmed) URL.
func (o *Orchestrator) validateCreatorURL(rawURL string) (string, error) {
	url := strings.ToLower(strings.TrimSpace(rawURL))
	if url == "" {
		return "", fmt.Errorf("%w: url is empty", ErrInvalidURLFormat)
	}

	if !strings.HasPrefix(url, o.baseURL) {
		return "", fmt.Errorf("%w: url must start with %s", ErrInvalidURLFormat, o.baseURL)
	}

	if !o.urlPatterns.matches(url) {
		return "", fmt.Errorf("%w: url must match one of: %s",
			ErrInvalidURLFormat, strings.Join(o.urlPatterns.descriptions, ", "))
	}

	return url, nil
}
