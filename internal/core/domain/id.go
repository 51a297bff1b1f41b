package domain

import (
	"github.com/google/uuid"
)

// UserID and ChannelID are opaque identifiers owned by the chat host.
type UserID string
type ChannelID string

func (id UserID) String() string {
	return string(id)
}

func (id ChannelID) String() string {
	return string(id)
}

type MessageID uuid.UUID

func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func ParseMessageID(s string) (MessageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MessageID{}, err
	}
	return MessageID(id), nil
}

func (id MessageID) String() string {
	return uuid.UUID(id).String()
}

func (id MessageID) IsZero() bool {
	return id == MessageID{}
}

func (id MessageID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *MessageID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = MessageID{}
		return nil
	}
	return (*uuid.UUID)(id).UnmarshalText(b)
}
