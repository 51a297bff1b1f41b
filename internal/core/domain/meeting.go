package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxMeetingNameLength bounds a derived identifier, counted in UTF-16 code
	// units so names match those produced by browser clients.
	MaxMeetingNameLength = 60

	DefaultProviderBaseURL = "https://g.co/meet"
)

type MeetingIdentifier string

func (id MeetingIdentifier) String() string {
	return string(id)
}

// DeriveMeetingName returns "{team}-{channel}" cut to MaxMeetingNameLength.
// Distinct pairs may collide once truncated; callers rely on the identifier
// being stable, so no disambiguation is attempted.
func DeriveMeetingName(teamName, channelName string) MeetingIdentifier {
	return MeetingIdentifier(truncateUTF16(teamName+"-"+channelName, MaxMeetingNameLength))
}

func truncateUTF16(s string, limit int) string {
	units := 0
	for i, r := range s {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		if units+n > limit {
			return s[:i]
		}
		units += n
	}
	return s
}

type MeetingProps struct {
	CallName    MeetingIdentifier `json:"call_name"`
	MeetingLink string            `json:"meeting_link"`
	// Topic titles the meeting. It defaults to the identifier.
	Topic string `json:"meeting_topic"`
	// Personal marks a meeting owned by a user rather than a channel.
	Personal bool `json:"meeting_personal"`
}

func BuildMeetingProps(baseURL string, id MeetingIdentifier) MeetingProps {
	if baseURL == "" {
		baseURL = DefaultProviderBaseURL
	}
	return MeetingProps{
		CallName:    id,
		MeetingLink: strings.TrimRight(baseURL, "/") + "/" + id.String(),
		Topic:       id.String(),
	}
}

// MeetingAttachment is the plain-text rendition of a meeting post for
// clients without a meeting renderer.
type MeetingAttachment struct {
	Fallback string `json:"fallback"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

const (
	DefaultMeetingTopic = "Google Meeting"

	meetingIDLabel         = "Meeting ID"
	personalMeetingIDLabel = "Personal Meeting ID (PMI)"
)

func (p MeetingProps) Attachment() MeetingAttachment {
	title := p.Topic
	if title == "" {
		title = DefaultMeetingTopic
	}
	label := meetingIDLabel
	if p.Personal {
		label = personalMeetingIDLabel
	}
	join := fmt.Sprintf("[Join Meeting](%s)", p.MeetingLink)
	return MeetingAttachment{
		Fallback: fmt.Sprintf("Video Meeting started at [%s](%s).\n\n%s", p.CallName, p.MeetingLink, join),
		Title:    title,
		Text:     fmt.Sprintf("%s: [%s](%s)\n\n%s", label, p.CallName, p.MeetingLink, join),
	}
}

func (p MeetingProps) toMap() map[string]any {
	a := p.Attachment()
	return map[string]any{
		PropCallName:        p.CallName.String(),
		PropMeetingLink:     p.MeetingLink,
		PropMeetingTopic:    p.Topic,
		PropMeetingPersonal: p.Personal,
		// Decoded-JSON shape: unchanged by a storage or wire round trip.
		PropAttachments: []any{map[string]any{
			"fallback": a.Fallback,
			"title":    a.Title,
			"text":     a.Text,
		}},
	}
}

// NewMeetingMessage assembles the structured post announcing a meeting.
func NewMeetingMessage(channelID ChannelID, authorID UserID, props MeetingProps, createdAt time.Time) Message {
	return Message{
		ChannelID: channelID,
		AuthorID:  authorID,
		Type:      PostTypeMeeting,
		Content:   fmt.Sprintf("I have started a meeting: [%s](%s)", props.MeetingLink, props.MeetingLink),
		CreatedAt: createdAt,
		Props:     props.toMap(),
	}
}
