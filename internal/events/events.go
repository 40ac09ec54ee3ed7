package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	TopicLiveStatusUpdated    = "live_status_updated"
	TopicBookingCreated       = "booking_created"
	TopicBookingCreatedPublic = "booking_created_public"
	TopicBookingDecision      = "booking_decision"
)

// Topics lists every outbound topic.
var Topics = []string{
	TopicLiveStatusUpdated,
	TopicBookingCreated,
	TopicBookingCreatedPublic,
	TopicBookingDecision,
}

// BusinessRoom is the room a business client joins to get its venue's events.
func BusinessRoom(venueID string) string {
	return "business:" + venueID
}

// BookingCreatedPayload is the booking snapshot sent on booking_created.
type BookingCreatedPayload struct {
	BookingID  string `json:"bookingId"`
	VenueID    string `json:"venueId"`
	ClientName string `json:"clientName"`
	Status     string `json:"status"`
}

// BookingDecisionPayload is sent on booking_decision.
type BookingDecisionPayload struct {
	BookingID string `json:"bookingId"`
	VenueID   string `json:"venueId"`
	Status    string `json:"status"`
}

// Event is one emission. An empty Room means every subscriber.
type Event struct {
	Type      string
	Room      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers handler for every topic in Topics.
func (b *EventBus) SubscribeAll(handler EventHandler) {
	for _, t := range Topics {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type. Handlers run synchronously
// and must not block; their errors are ignored.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event to room.
func (b *EventBus) PublishJSON(eventType, room string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Room: room, Payload: raw, CreatedAt: time.Now()})
	return nil
}
