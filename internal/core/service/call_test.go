package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/google/uuid"
)

func newTestCallService(sub *fakeSubmitter) *CallService {
	s := NewCallService(sub, "")
	s.now = func() time.Time { return time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC) }
	return s
}

func validRequest() StartCallRequest {
	return StartCallRequest{
		Channel: domain.Channel{ID: "ch-1", Name: "standup"},
		Team:    domain.Team{Name: "engineering"},
		UserID:  "user-1",
	}
}

func TestStartCallSubmitsMeetingPost(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	svc := newTestCallService(sub)

	posted, err := svc.StartCall(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("start call: %v", err)
	}
	if len(sub.calls) != 1 {
		t.Fatalf("submit calls = %d, want 1", len(sub.calls))
	}

	msg := sub.calls[0]
	if msg.Type != domain.PostTypeMeeting {
		t.Fatalf("type = %q, want %q", msg.Type, domain.PostTypeMeeting)
	}
	if msg.ChannelID != "ch-1" || msg.AuthorID != "user-1" {
		t.Fatalf("routing = %s/%s", msg.ChannelID, msg.AuthorID)
	}
	if !msg.CreatedAt.Equal(time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("created at = %v", msg.CreatedAt)
	}
	props, ok := msg.MeetingProps()
	if !ok {
		t.Fatal("missing meeting props")
	}
	if props.CallName != "engineering-standup" {
		t.Fatalf("call name = %q", props.CallName)
	}
	if props.MeetingLink != "https://g.co/meet/engineering-standup" {
		t.Fatalf("meeting link = %q", props.MeetingLink)
	}
	if posted.ID.IsZero() {
		t.Fatal("expected submitter-assigned id")
	}
}

func TestStartCallRejectsMissingContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*StartCallRequest)
	}{
		{name: "channel id", mutate: func(r *StartCallRequest) { r.Channel.ID = "" }},
		{name: "channel name", mutate: func(r *StartCallRequest) { r.Channel.Name = " " }},
		{name: "team name", mutate: func(r *StartCallRequest) { r.Team.Name = "" }},
		{name: "user id", mutate: func(r *StartCallRequest) { r.UserID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			svc := newTestCallService(sub)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.StartCall(context.Background(), req)
			if !errors.Is(err, domain.ErrInvalidContext) {
				t.Fatalf("error = %v, want %v", err, domain.ErrInvalidContext)
			}
			if len(sub.calls) != 0 {
				t.Fatalf("submit calls = %d, want 0", len(sub.calls))
			}
		})
	}
}

func TestStartCallSubmitsOnceOnFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("store down")
	sub := &fakeSubmitter{err: boom}
	svc := newTestCallService(sub)

	_, err := svc.StartCall(context.Background(), validRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if len(sub.calls) != 1 {
		t.Fatalf("submit calls = %d, want exactly 1", len(sub.calls))
	}
}

func TestStartCallUUIDScheme(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	svc := newTestCallService(sub)
	req := validRequest()
	req.Scheme = domain.NamingSchemeUUID

	if _, err := svc.StartCall(context.Background(), req); err != nil {
		t.Fatalf("start call: %v", err)
	}
	props, _ := sub.calls[0].MeetingProps()
	if _, err := uuid.Parse(props.CallName.String()); err != nil {
		t.Fatalf("call name %q is not a uuid: %v", props.CallName, err)
	}
}

func TestStartCallIsDeterministicAcrossCalls(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	svc := newTestCallService(sub)
	for i := 0; i < 2; i++ {
		if _, err := svc.StartCall(context.Background(), validRequest()); err != nil {
			t.Fatalf("start call %d: %v", i, err)
		}
	}
	a, _ := sub.calls[0].MeetingProps()
	b, _ := sub.calls[1].MeetingProps()
	if a != b {
		t.Fatalf("props differ: %+v vs %+v", a, b)
	}
}

func TestStartCallNamingSchemes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		scheme       domain.NamingScheme
		channelType  domain.ChannelType
		team         string
		wantName     *regexp.Regexp
		wantTopic    string
		wantPersonal bool
	}{
		{
			name:     "words",
			scheme:   domain.NamingSchemeWords,
			team:     "engineering",
			wantName: regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+$`),
		},
		{
			name:        "mattermost team channel",
			scheme:      domain.NamingSchemeMattermost,
			channelType: domain.ChannelTypeOpen,
			team:        "engineering",
			wantName:    regexp.MustCompile(`^engineering-standup-[a-z]{10}$`),
			wantTopic:   "standup Channel Meeting",
		},
		{
			name:         "mattermost direct message",
			scheme:       domain.NamingSchemeMattermost,
			channelType:  domain.ChannelTypeDirect,
			wantName:     regexp.MustCompile(`^alice-[a-z]{20}$`),
			wantTopic:    "alice's Personal Meeting",
			wantPersonal: true,
		},
		{
			name:         "mattermost group message",
			scheme:       domain.NamingSchemeMattermost,
			channelType:  domain.ChannelTypeGroup,
			team:         "engineering",
			wantName:     regexp.MustCompile(`^alice-[a-z]{20}$`),
			wantTopic:    "alice's Personal Meeting",
			wantPersonal: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sub := &fakeSubmitter{}
			req := validRequest()
			req.Scheme = tt.scheme
			req.Channel.Type = tt.channelType
			req.Team.Name = tt.team
			req.Username = "alice"

			if _, err := newTestCallService(sub).StartCall(context.Background(), req); err != nil {
				t.Fatalf("start call: %v", err)
			}
			props, _ := sub.calls[0].MeetingProps()
			if !tt.wantName.MatchString(props.CallName.String()) {
				t.Fatalf("call name = %q, want match %s", props.CallName, tt.wantName)
			}
			wantTopic := tt.wantTopic
			if wantTopic == "" {
				wantTopic = props.CallName.String()
			}
			if props.Topic != wantTopic {
				t.Fatalf("topic = %q, want %q", props.Topic, wantTopic)
			}
			if props.Personal != tt.wantPersonal {
				t.Fatalf("personal = %v, want %v", props.Personal, tt.wantPersonal)
			}
			att, ok := sub.calls[0].MeetingAttachment()
			if !ok || att.Title != wantTopic {
				t.Fatalf("attachment = %+v", att)
			}
		})
	}
}

func TestStartCallTeamRequiredOutsidePersonalMeetings(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	req := validRequest()
	req.Team.Name = ""
	req.Scheme = domain.NamingSchemeMattermost
	req.Channel.Type = domain.ChannelTypeOpen

	_, err := newTestCallService(sub).StartCall(context.Background(), req)
	if !errors.Is(err, domain.ErrInvalidContext) {
		t.Fatalf("error = %v, want %v", err, domain.ErrInvalidContext)
	}
}

func TestPersonalMeetingFallsBackToUserID(t *testing.T) {
	t.Parallel()

	sub := &fakeSubmitter{}
	req := validRequest()
	req.Scheme = domain.NamingSchemeMattermost
	req.Channel.Type = domain.ChannelTypeDirect

	if _, err := newTestCallService(sub).StartCall(context.Background(), req); err != nil {
		t.Fatalf("start call: %v", err)
	}
	props, _ := sub.calls[0].MeetingProps()
	if !strings.HasPrefix(props.CallName.String(), "user-1-") {
		t.Fatalf("call name = %q, want user id prefix", props.CallName)
	}
}
