package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"todohub/pkg/auth"
	"todohub/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 16
)

// Event is the wire format pushed to clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// clientCommand is what clients may send: joining or leaving a todo group so
// they receive updates while a shared todo is on screen.
type clientCommand struct {
	Action string `json:"action"`
	Group  string `json:"group"`
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int
	groups map[string]bool
}

type subscription struct {
	client *client
	group  string
	join   bool
}

type envelope struct {
	group   string
	payload []byte
}

// Hub fans events out to connected clients by group key. Every client is
// implicitly in its own "user_<id>" group; todo groups are joined on demand.
type Hub struct {
	clients     map[*client]bool
	register    chan *client
	unregister  chan *client
	subscribe   chan subscription
	broadcast   chan envelope
	logger      zerolog.Logger
	metrics     *metrics.AppMetrics
	upgrader    websocket.Upgrader
}

func NewHub(logger zerolog.Logger, m *metrics.AppMetrics) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		subscribe:  make(chan subscription),
		broadcast:  make(chan envelope, 64),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
		metrics:    m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish implements port.RealtimePublisher. Marshal failures are logged and
// dropped; the hub never blocks its callers.
func (h *Hub) Publish(groupKey, event string, payload any) {
	message, err := json.Marshal(Event{Type: event, Data: payload})

	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordWSEvent(event)
	}

	select {
	case h.broadcast <- envelope{group: groupKey, payload: message}:
	default:
		h.logger.Warn().Str("group", groupKey).Str("event", event).Msg("broadcast queue full, event dropped")
	}
}

// Run owns all hub state; it is the only goroutine touching the maps.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			if h.metrics != nil {
				h.metrics.IncrementWSConnections()
			}
			h.logger.Debug().Int("user_id", c.userID).Msg("client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				if h.metrics != nil {
					h.metrics.DecrementWSConnections()
				}
				h.logger.Debug().Int("user_id", c.userID).Msg("client disconnected")
			}

		case sub := <-h.subscribe:
			if _, ok := h.clients[sub.client]; ok {
				if sub.join {
					sub.client.groups[sub.group] = true
				} else {
					delete(sub.client.groups, sub.group)
				}
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.groups[msg.group] {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					close(c.send)
					delete(h.clients, c)
					if h.metrics != nil {
						h.metrics.DecrementWSConnections()
					}
				}
			}

		case <-stop:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

// Serve upgrades an authenticated request and starts the client pumps.
func (h *Hub) Serve(c *gin.Context) {
	userID := auth.CurrentUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		groups: map[string]bool{fmt.Sprintf("user_%d", userID): true},
	}

	h.register <- cl

	go cl.writePump()
	go cl.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()

		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug().Err(err).Int("user_id", c.userID).Msg("websocket read error")
			}
			break
		}

		var cmd clientCommand

		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "join":
			c.hub.subscribe <- subscription{client: c, group: cmd.Group, join: true}
		case "leave":
			c.hub.subscribe <- subscription{client: c, group: cmd.Group, join: false}
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
