package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tutfree/internal/config"
	"tutfree/internal/events"
	"tutfree/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.RealtimeConfig {
	return config.RealtimeConfig{
		SendBuffer:   8,
		PingInterval: time.Second,
		WriteWait:    time.Second,
		ReadLimit:    4096,
	}
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(testConfig(), &logger)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func subscribe(t *testing.T, hub *Hub, conn *websocket.Conn, venueID string) {
	t.Helper()
	before := hub.RoomSize(events.BusinessRoom(venueID))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": SubscribeEvent,
		"data":  map[string]string{"venueId": venueID},
	}))
	require.Eventually(t, func() bool {
		return hub.RoomSize(events.BusinessRoom(venueID)) == before+1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Dispatch(events.TopicBookingDecision, "", []byte(`{"bookingId":"b1"}`))

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		assert.Equal(t, events.TopicBookingDecision, f.Event)
		assert.JSONEq(t, `{"bookingId":"b1"}`, string(f.Data))
	}
}

func TestHub_RoomScoped(t *testing.T) {
	hub, url := startHub(t)
	owner := dial(t, url)
	other := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	subscribe(t, hub, owner, "v1")
	subscribe(t, hub, other, "v2")

	hub.Dispatch(events.TopicBookingCreated, events.BusinessRoom("v1"), []byte(`{"venueId":"v1"}`))
	hub.Dispatch(events.TopicBookingCreatedPublic, "", []byte(`{"venueId":"v1"}`))

	f := readFrame(t, owner)
	assert.Equal(t, events.TopicBookingCreated, f.Event)
	f = readFrame(t, owner)
	assert.Equal(t, events.TopicBookingCreatedPublic, f.Event)

	// the other venue only sees the public copy
	f = readFrame(t, other)
	assert.Equal(t, events.TopicBookingCreatedPublic, f.Event)
}

func TestHub_SubscribeWithoutVenueIgnored(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": SubscribeEvent, "data": map[string]string{}}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	subscribe(t, hub, conn, "v9")

	hub.mu.RLock()
	rooms := len(hub.rooms)
	hub.mu.RUnlock()
	assert.Equal(t, 1, rooms)
}

func TestHub_DisconnectLeavesRooms(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	subscribe(t, hub, conn, "v1")

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.Clients() == 0 && hub.RoomSize(events.BusinessRoom("v1")) == 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotPanics(t, func() {
		hub.Dispatch(events.TopicLiveStatusUpdated, "", []byte(`{}`))
	})
}

func TestHub_FullQueueDrops(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(testConfig(), &logger)
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	hub.Dispatch(events.TopicLiveStatusUpdated, "", []byte(`{"n":1}`))
	hub.Dispatch(events.TopicLiveStatusUpdated, "", []byte(`{"n":2}`))

	require.Len(t, c.send, 1)
	var f Frame
	require.NoError(t, json.Unmarshal(<-c.send, &f))
	assert.JSONEq(t, `{"n":1}`, string(f.Data))
}

func TestNotifier_ThroughBus(t *testing.T) {
	hub, url := startHub(t)
	bus := events.NewEventBus()
	bus.SubscribeAll(hub.HandleEvent)
	logger := zerolog.Nop()
	n := NewNotifier(bus, &logger)

	owner := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	subscribe(t, hub, owner, "v1")

	mins := 20.0
	n.StatusUpdated(models.LiveStatus{TwoGisID: "v1", Mode: models.ModeNextWindow, NextAvailableInMinutes: &mins})
	f := readFrame(t, owner)
	assert.Equal(t, events.TopicLiveStatusUpdated, f.Event)
	var status models.LiveStatus
	require.NoError(t, json.Unmarshal(f.Data, &status))
	assert.Equal(t, "v1", status.TwoGisID)

	n.BookingCreated(models.Booking{ID: "b1", VenueID: "v1", ClientName: "Aru", Status: models.BookingPendingConfirmation})
	f = readFrame(t, owner)
	assert.Equal(t, events.TopicBookingCreated, f.Event)
	assert.JSONEq(t, `{"bookingId":"b1","venueId":"v1","clientName":"Aru","status":"pending_confirmation"}`, string(f.Data))
	f = readFrame(t, owner)
	assert.Equal(t, events.TopicBookingCreatedPublic, f.Event)

	n.BookingDecision(models.Booking{ID: "b1", VenueID: "v1", Status: models.BookingConfirmed})
	f = readFrame(t, owner)
	assert.Equal(t, events.TopicBookingDecision, f.Event)
	assert.JSONEq(t, `{"bookingId":"b1","venueId":"v1","status":"confirmed"}`, string(f.Data))
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.StatusUpdated(models.LiveStatus{})
		n.BookingCreated(models.Booking{})
	})

	unset := NewNotifier(nil, nil)
	assert.NotPanics(t, func() {
		unset.BookingDecision(models.Booking{})
	})
}
