package realtime

import (
	"encoding/json"
	"time"

	"tutfree/internal/events"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	size := h.cfg.SendBuffer
	if size <= 0 {
		size = 64
	}
	return &Client{hub: h, conn: conn, send: make(chan []byte, size)}
}

func (c *Client) pongWait() time.Duration {
	return c.hub.cfg.PingInterval * 2
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	if c.hub.cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(c.hub.cfg.ReadLimit)
	}
	if c.hub.cfg.PingInterval > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
		})
	}

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		c.handle(message)
	}
}

func (c *Client) handle(message []byte) {
	var frame Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.hub.logger.Debug().Err(err).Msg("ignoring malformed frame")
		return
	}

	switch frame.Event {
	case SubscribeEvent:
		var data subscribeData
		if len(frame.Data) > 0 {
			_ = json.Unmarshal(frame.Data, &data)
		}
		if data.VenueID == "" {
			return
		}
		c.hub.Join(c, events.BusinessRoom(data.VenueID))
		c.hub.logger.Debug().Str("venue_id", data.VenueID).Msg("client joined business room")
	default:
		c.hub.logger.Debug().Str("event", frame.Event).Msg("ignoring unknown frame")
	}
}

func (c *Client) writePump() {
	var tick <-chan time.Time
	if c.hub.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.hub.cfg.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.conn.Close()

	for {
		select {
		case msg, ok := <-c.send:
			c.setWriteDeadline()
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-tick:
			c.setWriteDeadline()
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) setWriteDeadline() {
	if c.hub.cfg.WriteWait > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
	}
}
