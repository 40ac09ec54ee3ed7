package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int
	bus.Subscribe(TopicBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := BookingCreatedPayload{BookingID: "b1", VenueID: "v1", ClientName: "Aru", Status: "pending"}
	require.NoError(t, bus.PublishJSON(TopicBookingCreated, BusinessRoom("v1"), payload))

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, TopicBookingCreated, received.Type)
	assert.Equal(t, "business:v1", received.Room)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(received.Payload, &decoded))
	assert.Equal(t, map[string]string{
		"bookingId": "b1", "venueId": "v1", "clientName": "Aru", "status": "pending",
	}, decoded)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe(TopicBookingDecision, func(_ *Event) error { count1++; return nil })
	bus.Subscribe(TopicBookingDecision, func(_ *Event) error { count2++; return nil })
	bus.Subscribe(TopicLiveStatusUpdated, func(_ *Event) error { t.Fatal("wrong topic"); return nil })

	bus.Publish(&Event{Type: TopicBookingDecision})

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	var seen []string
	bus.SubscribeAll(func(e *Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	for _, topic := range Topics {
		require.NoError(t, bus.PublishJSON(topic, "", struct{}{}))
	}
	assert.Equal(t, Topics, seen)
}

func TestEventBusNilAndBadPayload(t *testing.T) {
	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(TopicBookingDecision, "", nil))

	bus := NewEventBus()
	assert.Error(t, bus.PublishJSON(TopicBookingDecision, "", make(chan int)))
}
