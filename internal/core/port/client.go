package port

import (
	"context"

	"github.com/Wyydra/meet/internal/core/domain"
)

// MessageSubmitter owns persistence and delivery of a message. It returns the
// message as stored.
type MessageSubmitter interface {
	Submit(ctx context.Context, msg domain.Message) (domain.Message, error)
}

type ConfigSource interface {
	FetchConfig(ctx context.Context) (domain.FeatureConfig, error)
}

// EventSource delivers push events until ctx is done or the source fails, at
// which point the channel is closed.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan domain.Event, error)
}
