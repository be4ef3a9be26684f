package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/interfaces"
)

// allEventTypes lists every event the pipeline can raise, in no particular
// order. Used by SubscribeAll.
var allEventTypes = []interfaces.EventType{
	interfaces.EventStatusChanged,
	interfaces.EventPostCrawlStart,
	interfaces.EventPostCrawlEnd,
	interfaces.EventNewCrawledUrl,
	interfaces.EventCrawlerMessage,
	interfaces.EventFileDownloaded,
}

// Service implements EventService with pub/sub pattern. Handlers run
// synchronously in subscription order so that subscribers observe pipeline
// events exactly as the stages emit them.
type Service struct {
	subscribers map[interfaces.EventType][]interfaces.EventHandler
	mu          sync.RWMutex
	logger      arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		subscribers: make(map[interfaces.EventType][]interfaces.EventHandler),
		logger:      logger,
	}
}

// Subscribe registers a handler for an event type
func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers[eventType] = append(s.subscribers[eventType], handler)

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscriber_count", len(s.subscribers[eventType])).
		Msg("Event handler subscribed")

	return nil
}

// SubscribeAll registers a handler for every known event type
func (s *Service) SubscribeAll(handler interfaces.EventHandler) error {
	for _, eventType := range allEventTypes {
		if err := s.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}

// Publish delivers an event to all subscribers in subscription order and
// returns after every handler has run. Handler errors are logged and do not
// stop delivery to the remaining handlers.
func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	s.mu.RLock()
	handlers := make([]interfaces.EventHandler, len(s.subscribers[event.Type]))
	copy(handlers, s.subscribers[event.Type])
	s.mu.RUnlock()

	if len(handlers) == 0 {
		s.logger.Debug().
			Str("event_type", string(event.Type)).
			Msg("No subscribers for event")
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			s.logger.Error().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Event handler failed")
		}
	}

	return nil
}

// Close shuts down the event service
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = make(map[interfaces.EventType][]interfaces.EventHandler)
	s.logger.Debug().Msg("Event service closed")

	return nil
}
