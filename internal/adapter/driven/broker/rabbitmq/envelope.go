package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/google/uuid"
)

// ErrPoison marks a delivery that can never be decoded.
var ErrPoison = errors.New("poison message")

type Meta struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

type Envelope struct {
	Meta Meta         `json:"meta"`
	Data domain.Event `json:"data"`
}

func newEnvelope(event domain.Event, now time.Time) Envelope {
	return Envelope{
		Meta: Meta{
			ID:   uuid.NewString(),
			Type: event.Name,
			Time: now.UTC(),
		},
		Data: event,
	}
}

func encodeEnvelope(env Envelope) ([]byte, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return body, nil
}

func decodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrPoison, err)
	}
	if env.Data.Name == "" {
		return Envelope{}, fmt.Errorf("%w: missing event name", ErrPoison)
	}
	return env, nil
}
