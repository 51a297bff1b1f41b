package domain

import "encoding/json"

// EventPosted announces a new message in a channel.
const EventPosted = "posted"

// Broadcast scopes an event. An empty field matches everyone.
type Broadcast struct {
	UserID    UserID    `json:"user_id,omitempty"`
	ChannelID ChannelID `json:"channel_id,omitempty"`
}

type Event struct {
	Name      string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
	Broadcast Broadcast      `json:"broadcast"`
}

func NewConfigChangeEvent(userID UserID) Event {
	return Event{
		Name:      ConfigChangeEvent,
		Broadcast: Broadcast{UserID: userID},
	}
}

func NewPostedEvent(msg Message) Event {
	return Event{
		Name:      EventPosted,
		Data:      map[string]any{"post": msg},
		Broadcast: Broadcast{ChannelID: msg.ChannelID},
	}
}

// PostFromEvent extracts the message carried by a posted event, whether the
// event was built locally or decoded from the wire.
func PostFromEvent(e Event) (Message, bool) {
	if e.Name != EventPosted || e.Data == nil {
		return Message{}, false
	}
	switch v := e.Data["post"].(type) {
	case Message:
		return v, true
	case *Message:
		if v == nil {
			return Message{}, false
		}
		return *v, true
	case nil:
		return Message{}, false
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return Message{}, false
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return Message{}, false
		}
		return msg, true
	}
}
