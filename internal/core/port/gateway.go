package port

import (
	"context"

	"github.com/Wyydra/meet/internal/core/domain"
)

type RealTimeGateway interface {
	BroadcastMessage(ctx context.Context, msg domain.Message) error
	PublishEvent(ctx context.Context, event domain.Event) error
}

// EventPublisher fans events out to other server instances.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.Event) error
}
