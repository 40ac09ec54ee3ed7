// Package telegram forwards booking events to venue owners' Telegram chats.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	"tutfree/internal/events"
	"tutfree/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const queueSize = 64

// Sender is the part of tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewSender connects to the Bot API with token.
func NewSender(token string) (Sender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return bot, nil
}

// OwnerNotifier sends a chat message to the owner of a venue when a booking
// is created or decided. Venues without a configured chat are skipped.
type OwnerNotifier struct {
	sender Sender
	chats  map[string]int64
	queue  chan tgbotapi.MessageConfig
	logger *zerolog.Logger
}

func NewOwnerNotifier(sender Sender, chats map[string]int64, logger *zerolog.Logger) *OwnerNotifier {
	return &OwnerNotifier{
		sender: sender,
		chats:  chats,
		queue:  make(chan tgbotapi.MessageConfig, queueSize),
		logger: logger,
	}
}

// Register subscribes the notifier to booking topics.
func (n *OwnerNotifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.TopicBookingCreated, n.handleCreated)
	bus.Subscribe(events.TopicBookingDecision, n.handleDecision)
}

// Run sends queued messages until ctx is done.
func (n *OwnerNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.queue:
			if _, err := n.sender.Send(msg); err != nil {
				n.logger.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send owner notification")
			}
		}
	}
}

func (n *OwnerNotifier) handleCreated(e *events.Event) error {
	var p events.BookingCreatedPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return err
	}
	n.enqueue(p.VenueID, fmt.Sprintf("Новая заявка на бронирование\nКлиент: %s\nID: %s", p.ClientName, p.BookingID))
	return nil
}

func (n *OwnerNotifier) handleDecision(e *events.Event) error {
	var p events.BookingDecisionPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return err
	}
	n.enqueue(p.VenueID, fmt.Sprintf("Заявка %s: %s", p.BookingID, statusText(p.Status)))
	return nil
}

// enqueue never blocks; a full queue drops the message.
func (n *OwnerNotifier) enqueue(venueID, text string) {
	chatID, ok := n.chats[venueID]
	if !ok {
		return
	}
	select {
	case n.queue <- tgbotapi.NewMessage(chatID, text):
	default:
		n.logger.Warn().Str("venue_id", venueID).Msg("owner notification queue full, dropping")
	}
}

func statusText(status string) string {
	switch status {
	case models.BookingConfirmed:
		return "подтверждена"
	case models.BookingRejected:
		return "отклонена"
	default:
		return status
	}
}
