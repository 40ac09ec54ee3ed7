package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"tutfree/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockSender) messages() []tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), m.sent...)
}

func TestOwnerNotifier(t *testing.T) {
	logger := zerolog.Nop()
	sender := &mockSender{}
	n := NewOwnerNotifier(sender, map[string]int64{"v1": 42}, &logger)

	bus := events.NewEventBus()
	n.Register(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	require.NoError(t, bus.PublishJSON(events.TopicBookingCreated, events.BusinessRoom("v1"),
		events.BookingCreatedPayload{BookingID: "b1", VenueID: "v1", ClientName: "Aru", Status: "pending_confirmation"}))
	require.NoError(t, bus.PublishJSON(events.TopicBookingCreated, events.BusinessRoom("v2"),
		events.BookingCreatedPayload{BookingID: "b2", VenueID: "v2", ClientName: "Dana"}))
	require.NoError(t, bus.PublishJSON(events.TopicBookingDecision, "",
		events.BookingDecisionPayload{BookingID: "b1", VenueID: "v1", Status: "confirmed"}))

	require.Eventually(t, func() bool { return len(sender.messages()) == 2 }, time.Second, 5*time.Millisecond)
	msgs := sender.messages()
	assert.Equal(t, int64(42), msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "Aru")
	assert.Contains(t, msgs[1].Text, "подтверждена")
}

func TestOwnerNotifier_QueueFullDrops(t *testing.T) {
	logger := zerolog.Nop()
	n := NewOwnerNotifier(&mockSender{}, map[string]int64{"v1": 1}, &logger)

	for i := 0; i < queueSize+10; i++ {
		n.enqueue("v1", "x")
	}
	assert.Len(t, n.queue, queueSize)
}
