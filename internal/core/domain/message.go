package domain

import (
	"fmt"
	"strings"
	"time"
)

// PostTypeMeeting tags messages that announce a meeting. Renderers recognise
// it; everything else in the feed is plain text.
const PostTypeMeeting = "custom_gmeet_post_type"

const (
	PropCallName        = "call_name"
	PropMeetingLink     = "meeting_link"
	PropMeetingTopic    = "meeting_topic"
	PropMeetingPersonal = "meeting_personal"
	PropAttachments     = "attachments"
)

type Message struct {
	ID        MessageID      `json:"id"`
	ChannelID ChannelID      `json:"channel_id"`
	AuthorID  UserID         `json:"user_id"`
	Type      string         `json:"type,omitempty"`
	Content   string         `json:"message"`
	CreatedAt time.Time      `json:"create_at"`
	Props     map[string]any `json:"props,omitempty"`
}

// Validate checks the fields the message store depends on. Meeting messages
// must also carry both meeting props.
func (m Message) Validate() error {
	if strings.TrimSpace(m.ChannelID.String()) == "" {
		return fmt.Errorf("%w: channel id is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.AuthorID.String()) == "" {
		return fmt.Errorf("%w: author id is required", ErrInvalidMessage)
	}
	if m.IsMeeting() {
		props, ok := m.MeetingProps()
		if !ok || props.CallName == "" || props.MeetingLink == "" {
			return fmt.Errorf("%w: meeting message requires %s and %s", ErrInvalidMessage, PropCallName, PropMeetingLink)
		}
		return nil
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalidMessage)
	}
	return nil
}

func (m Message) IsMeeting() bool {
	return m.Type == PostTypeMeeting
}

// MeetingProps reads the meeting props back out of the generic props map.
func (m Message) MeetingProps() (MeetingProps, bool) {
	if m.Props == nil {
		return MeetingProps{}, false
	}
	name, nameOK := m.Props[PropCallName].(string)
	link, linkOK := m.Props[PropMeetingLink].(string)
	if !nameOK && !linkOK {
		return MeetingProps{}, false
	}
	topic, _ := m.Props[PropMeetingTopic].(string)
	personal, _ := m.Props[PropMeetingPersonal].(bool)
	return MeetingProps{
		CallName:    MeetingIdentifier(name),
		MeetingLink: link,
		Topic:       topic,
		Personal:    personal,
	}, true
}

// MeetingAttachment returns the first attachment carried by the post.
func (m Message) MeetingAttachment() (MeetingAttachment, bool) {
	list, ok := m.Props[PropAttachments].([]any)
	if !ok || len(list) == 0 {
		return MeetingAttachment{}, false
	}
	raw, ok := list[0].(map[string]any)
	if !ok {
		return MeetingAttachment{}, false
	}
	fallback, _ := raw["fallback"].(string)
	title, _ := raw["title"].(string)
	text, _ := raw["text"].(string)
	return MeetingAttachment{Fallback: fallback, Title: title, Text: text}, true
}
