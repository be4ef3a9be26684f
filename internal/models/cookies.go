package models

import "net/http"

// SessionCookies holds the platform session credentials taken from a logged
// in browser session. SessionId is the primary credential; Extra carries any
// additional cookies the caller wants forwarded verbatim.
type SessionCookies struct {
	SessionId string
	Domain    string
	Extra     []*http.Cookie
}

// HTTPCookies materializes the credential set as http.Cookie values suitable
// for a cookie jar or for injection into the remote browser.
func (c *SessionCookies) HTTPCookies() []*http.Cookie {
	if c == nil {
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(c.Extra)+1)
	if c.SessionId != "" {
		cookies = append(cookies, &http.Cookie{
			Name:     "session_id",
			Value:    c.SessionId,
			Domain:   c.Domain,
			Path:     "/",
			HttpOnly: true,
		})
	}
	cookies = append(cookies, c.Extra...)
	return cookies
}

// Empty reports whether no usable credential is present.
func (c *SessionCookies) Empty() bool {
	return c == nil || (c.SessionId == "" && len(c.Extra) == 0)
}
