package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/rs/zerolog/log"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

// PostService stores channel messages and pushes them to connected clients.
// It is the server-side port.MessageSubmitter.
type PostService struct {
	repo    port.MessageRepository
	gateway port.RealTimeGateway
	now     func() time.Time
}

func NewPostService(repo port.MessageRepository, gateway port.RealTimeGateway) *PostService {
	return &PostService{
		repo:    repo,
		gateway: gateway,
		now:     time.Now,
	}
}

func (s *PostService) Submit(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if err := msg.Validate(); err != nil {
		return domain.Message{}, err
	}
	if msg.ID.IsZero() {
		msg.ID = domain.NewMessageID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("save message: %w", err)
	}
	if err := s.gateway.BroadcastMessage(ctx, msg); err != nil {
		// The message is stored; clients will see it on their next fetch.
		log.Error().Err(err).Str("message_id", msg.ID.String()).Msg("Failed to broadcast message")
	}
	return msg, nil
}

// ListChannel returns up to limit of the newest messages, oldest first.
func (s *PostService) ListChannel(ctx context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return s.repo.ListByChannel(ctx, channelID, limit)
}
