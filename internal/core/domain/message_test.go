package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
		ok   bool
	}{
		{name: "plain", msg: Message{ChannelID: "c", AuthorID: "u", Content: "hi"}, ok: true},
		{name: "missing channel", msg: Message{AuthorID: "u", Content: "hi"}},
		{name: "missing author", msg: Message{ChannelID: "c", Content: "hi"}},
		{name: "blank content", msg: Message{ChannelID: "c", AuthorID: "u", Content: "  "}},
		{name: "meeting without props", msg: Message{ChannelID: "c", AuthorID: "u", Type: PostTypeMeeting}},
		{name: "meeting missing link", msg: Message{ChannelID: "c", AuthorID: "u", Type: PostTypeMeeting, Props: map[string]any{PropCallName: "x"}}},
		{name: "meeting", msg: Message{ChannelID: "c", AuthorID: "u", Type: PostTypeMeeting, Props: map[string]any{PropCallName: "x", PropMeetingLink: "https://g.co/meet/x"}}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidMessage) {
				t.Fatalf("validate error = %v, want %v", err, ErrInvalidMessage)
			}
		})
	}
}

func TestPostFromEventDecodesWirePayload(t *testing.T) {
	t.Parallel()

	msg := NewMeetingMessage("ch-1", "u-1", BuildMeetingProps("", "team-chan"), testTime)
	msg.ID = NewMessageID()

	raw, err := json.Marshal(NewPostedEvent(msg))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Event
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, ok := PostFromEvent(decoded)
	if !ok {
		t.Fatal("expected post in event")
	}
	if got.ID != msg.ID {
		t.Fatalf("id = %s, want %s", got.ID, msg.ID)
	}
	props, ok := got.MeetingProps()
	if !ok || props.CallName != "team-chan" {
		t.Fatalf("props = %+v", props)
	}

	if _, ok := PostFromEvent(NewConfigChangeEvent("u-1")); ok {
		t.Fatal("config change event should not carry a post")
	}
}
