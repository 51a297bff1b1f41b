package ws

import "github.com/Wyydra/meet/internal/core/domain"

type Client interface {
	ID() string
	UserID() domain.UserID
	// Subscribed reports whether the client follows a channel's feed.
	Subscribed(channelID domain.ChannelID) bool
	Send(event domain.Event) error
	Close() error
}
