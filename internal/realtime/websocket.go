package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// DeviceTokenValidator verifies a display's socket token and returns the
// device and masjid it was issued for.
type DeviceTokenValidator func(token string) (deviceID, masjidID int, err error)

// wsClient owns one websocket connection. Outbound envelopes go through a
// buffered channel; a full buffer drops the message, which the display's
// poll fallback covers.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan Envelope
}

func (c *wsClient) Send(env Envelope) {
	select {
	case c.send <- env:
	default:
		log.Warn().Str("connection_id", c.id).Str("event", env.Event).
			Msg("send buffer full, dropping push")
	}
}

// ServeWs upgrades a display connection, registers it with the registry, and
// runs the read/write pumps. touch is called on each heartbeat pong so the
// device's last-seen timestamp stays fresh; a missed heartbeat never
// deregisters the connection, only a transport disconnect does.
func ServeWs(reg Registry, validate DeviceTokenValidator, touch func(deviceID int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		deviceID, masjidID, err := validate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &wsClient{
			id:   uuid.New().String(),
			conn: conn,
			send: make(chan Envelope, sendBuffer),
		}
		record := &Connection{
			ID:          client.id,
			MasjidID:    masjidID,
			DeviceID:    &deviceID,
			ConnectedAt: time.Now(),
			Sender:      client,
		}
		reg.Register(record)
		log.Info().Int("device_id", deviceID).Int("masjid_id", masjidID).
			Str("connection_id", client.id).Msg("display socket connected")

		go client.writePump()
		client.readPump(reg, deviceID, touch)
	}
}

func (c *wsClient) readPump(reg Registry, deviceID int, touch func(deviceID int)) {
	// send is never closed: a broadcast snapshotted just before Unregister
	// may still call Send, and writing to a closed channel would panic.
	defer func() {
		reg.Unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if touch != nil {
			touch(deviceID)
		}
		return nil
	})

	for {
		// displays only listen; inbound frames just keep the connection alive
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
