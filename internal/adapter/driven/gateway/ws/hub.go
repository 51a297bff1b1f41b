package ws

import (
	"context"
	"errors"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/rs/zerolog/log"
)

const eventBufferSize = 256

var ErrHubStopped = errors.New("hub stopped")

// Hub implements port.RealTimeGateway. A single goroutine (Run) owns the
// client set.
type Hub struct {
	clients    map[Client]bool
	events     chan domain.Event
	register   chan Client
	unregister chan Client
	quit       chan struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Client]bool),
		events:     make(chan domain.Event, eventBufferSize),
		register:   make(chan Client),
		unregister: make(chan Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) BroadcastMessage(ctx context.Context, msg domain.Message) error {
	return h.PublishEvent(ctx, domain.NewPostedEvent(msg))
}

func (h *Hub) PublishEvent(ctx context.Context, event domain.Event) error {
	// quit is checked first: once stopped, a free buffer slot must not win.
	select {
	case <-h.quit:
		return ErrHubStopped
	default:
	}

	select {
	case <-h.quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	case h.events <- event:
		return nil
	default:
		log.Warn().Str("event", event.Name).Msg("Event buffer full, dropping event")
		return nil
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Info().Str("client_id", client.ID()).Str("user_id", client.UserID().String()).Msg("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
				log.Info().Str("client_id", client.ID()).Msg("Client unregistered")
			}

		case event := <-h.events:
			for client := range h.clients {
				if !matches(client, event) {
					continue
				}
				if err := client.Send(event); err != nil {
					log.Error().Err(err).Str("client_id", client.ID()).Msg("Error sending event")
					client.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}

func matches(c Client, event domain.Event) bool {
	if event.Broadcast.UserID != "" && c.UserID() != event.Broadcast.UserID {
		return false
	}
	if event.Broadcast.ChannelID != "" && !c.Subscribed(event.Broadcast.ChannelID) {
		return false
	}
	return true
}

func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.quit:
		c.Close()
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Stop closes every client and waits for Run to return.
func (h *Hub) Stop() {
	close(h.quit)
	<-h.done
}
