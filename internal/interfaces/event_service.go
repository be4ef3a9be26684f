package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	EventStatusChanged  EventType = "status_changed"
	EventPostCrawlStart EventType = "post_crawl_start"
	EventPostCrawlEnd   EventType = "post_crawl_end"
	EventNewCrawledUrl  EventType = "new_crawled_url"
	EventCrawlerMessage EventType = "crawler_message"
	EventFileDownloaded EventType = "file_downloaded"
)

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the pub/sub event bus. Delivery is synchronous and
// ordered: Publish invokes handlers in subscription order and returns only
// after every handler has run. Handler errors are logged, never propagated
// to the publisher.
type EventService interface {
	// Subscribe registers a handler for an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for every known event type
	SubscribeAll(handler EventHandler) error

	// Publish delivers an event to all subscribers in order
	Publish(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
