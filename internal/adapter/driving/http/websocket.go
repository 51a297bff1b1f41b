package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64

	// eventHello is the first frame on every connection, sent once the
	// client is registered with the hub.
	eventHello = "hello"
)

var (
	errClientClosed = errors.New("client closed")
	errClientSlow   = errors.New("client send buffer full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity comes from the X-User-Id header, set by the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSClient is one websocket connection registered with the hub.
type WSClient struct {
	id       string
	userID   domain.UserID
	channels map[domain.ChannelID]bool
	conn     *websocket.Conn
	send     chan domain.Event
	done     chan struct{}
	once     sync.Once
}

func newWSClient(conn *websocket.Conn, userID domain.UserID, channels []string) *WSClient {
	c := &WSClient{
		id:       uuid.NewString(),
		userID:   userID,
		channels: make(map[domain.ChannelID]bool, len(channels)),
		conn:     conn,
		send:     make(chan domain.Event, sendBufferSize),
		done:     make(chan struct{}),
	}
	for _, ch := range channels {
		if ch != "" {
			c.channels[domain.ChannelID(ch)] = true
		}
	}
	return c
}

func (c *WSClient) ID() string {
	return c.id
}

func (c *WSClient) UserID() domain.UserID {
	return c.userID
}

func (c *WSClient) Subscribed(channelID domain.ChannelID) bool {
	return c.channels[channelID]
}

// Send queues an event for the write loop without blocking the hub.
func (c *WSClient) Send(event domain.Event) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- event:
		return nil
	default:
		return errClientSlow
	}
}

func (c *WSClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WSClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				log.Error().Err(err).Str("client_id", c.id).Msg("Error writing event")
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readLoop only services control frames; clients do not send data.
func (c *WSClient) readLoop() error {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())
	channels := r.URL.Query()["channel_id"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := newWSClient(conn, userID, channels)

	l := log.With().Str("client_id", client.id).Str("user_id", userID.String()).Logger()
	l.Info().Strs("channels", channels).Msg("New client connected")

	h.Hub.Register(client)
	go client.writeLoop()
	client.Send(domain.Event{Name: eventHello, Broadcast: domain.Broadcast{UserID: userID}})

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Hub.Unregister(client)
		client.Close()
	}()

	if err := client.readLoop(); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
			l.Error().Err(err).Msg("Unexpected close error")
		}
	}
}
