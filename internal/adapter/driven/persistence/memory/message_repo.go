package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Wyydra/meet/internal/core/domain"
)

type MessageRepository struct {
	mu       sync.Mutex
	messages []domain.Message
	ids      map[domain.MessageID]int
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		messages: make([]domain.Message, 0),
		ids:      make(map[domain.MessageID]int),
	}
}

func (r *MessageRepository) Save(ctx context.Context, msg domain.Message) error {
	if msg.ID.IsZero() {
		return fmt.Errorf("%w: message id is required", domain.ErrInvalidMessage)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ids[msg.ID]; dup {
		return domain.ErrAlreadyExists
	}
	r.ids[msg.ID] = len(r.messages)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *MessageRepository) Get(ctx context.Context, id domain.MessageID) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ids[id]
	if !ok {
		return domain.Message{}, domain.ErrNotFound
	}
	return r.messages[i], nil
}

func (r *MessageRepository) ListByChannel(ctx context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Message, 0)
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if r.messages[i].ChannelID == channelID {
			out = append(out, r.messages[i])
		}
	}
	// newest-first while scanning; callers expect oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
