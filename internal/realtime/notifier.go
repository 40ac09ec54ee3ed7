package realtime

import (
	"tutfree/internal/domain"
	"tutfree/internal/events"
	"tutfree/internal/models"

	"github.com/rs/zerolog"
)

// Notifier turns domain changes into bus events. A nil Notifier or one
// built with a nil publisher does nothing.
type Notifier struct {
	bus    domain.EventPublisher
	logger *zerolog.Logger
}

func NewNotifier(bus domain.EventPublisher, logger *zerolog.Logger) *Notifier {
	return &Notifier{bus: bus, logger: logger}
}

func (n *Notifier) publish(topic, room string, payload interface{}) {
	if n == nil || n.bus == nil {
		return
	}
	if err := n.bus.PublishJSON(topic, room, payload); err != nil && n.logger != nil {
		n.logger.Error().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

// StatusUpdated broadcasts the upserted status to everyone.
func (n *Notifier) StatusUpdated(status models.LiveStatus) {
	n.publish(events.TopicLiveStatusUpdated, "", status)
}

// BookingCreated goes to the venue's business room and, separately, to
// everyone under the public topic.
func (n *Notifier) BookingCreated(b models.Booking) {
	payload := events.BookingCreatedPayload{
		BookingID:  b.ID,
		VenueID:    b.VenueID,
		ClientName: b.ClientName,
		Status:     b.Status,
	}
	n.publish(events.TopicBookingCreated, events.BusinessRoom(b.VenueID), payload)
	n.publish(events.TopicBookingCreatedPublic, "", payload)
}

func (n *Notifier) BookingDecision(b models.Booking) {
	n.publish(events.TopicBookingDecision, "", events.BookingDecisionPayload{
		BookingID: b.ID,
		VenueID:   b.VenueID,
		Status:    b.Status,
	})
}

var _ domain.Notifier = (*Notifier)(nil)
