package models

import "context"

// PageHandle wraps the DevTools page context used to drive the remote
// browser. The context is a chromedp browser context; Cancel tears the page
// down without terminating the remote process.
type PageHandle struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// BrowserSession is the capability handle exposed to the crawl stage.
// Exactly one live instance exists per process; it is created on first
// demand and reused while the connection remains live.
type BrowserSession struct {
	// Endpoint is the DevTools debugging endpoint the session is attached to.
	Endpoint string

	// Connected reports whether the session handle is still live.
	Connected bool

	// Page is the warm page kept open on the remote browser.
	Page *PageHandle
}

// Live reports whether the handle can be used for page manipulation.
func (s *BrowserSession) Live() bool {
	return s != nil && s.Connected && s.Page != nil && s.Page.Ctx != nil
}
