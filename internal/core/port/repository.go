package port

import (
	"context"

	"github.com/Wyydra/meet/internal/core/domain"
)

type MessageRepository interface {
	Save(ctx context.Context, msg domain.Message) error
	Get(ctx context.Context, id domain.MessageID) (domain.Message, error)
	ListByChannel(ctx context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error)
}

type UserConfigRepository interface {
	// GetUserConfig returns domain.ErrNotFound when the user never saved one.
	GetUserConfig(ctx context.Context, userID domain.UserID) (domain.UserConfig, error)
	SaveUserConfig(ctx context.Context, userID domain.UserID, cfg domain.UserConfig) error
}
