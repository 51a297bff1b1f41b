package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// EventStream implements port.EventSource over the server's /ws endpoint.
type EventStream struct {
	baseURL   string
	userID    domain.UserID
	channelID domain.ChannelID
	dialer    *websocket.Dialer
}

func NewEventStream(baseURL string, userID domain.UserID, channelID domain.ChannelID) *EventStream {
	return &EventStream{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userID:    userID,
		channelID: channelID,
		dialer:    websocket.DefaultDialer,
	}
}

func (s *EventStream) url() (string, error) {
	u, err := url.Parse(s.baseURL + "/ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if s.channelID != "" {
		q := u.Query()
		q.Set("channel_id", s.channelID.String())
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (s *EventStream) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	target, err := s.url()
	if err != nil {
		return nil, fmt.Errorf("event stream url: %w", err)
	}
	header := http.Header{}
	header.Set(UserHeader, s.userID.String())

	conn, resp, err := s.dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", target, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	events := make(chan domain.Event)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			var ev domain.Event
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Error().Err(err).Msg("Event stream closed")
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
