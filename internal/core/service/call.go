package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/Wyydra/meet/internal/naming"
	"github.com/rs/zerolog/log"
)

type StartCallRequest struct {
	Channel domain.Channel
	Team    domain.Team
	UserID  domain.UserID
	// Username names personal meetings. It defaults to UserID.
	Username string
	// Scheme overrides how the meeting is named. Empty means derived from
	// the team and channel names.
	Scheme domain.NamingScheme
}

// personalMeeting reports whether the request gets a meeting owned by the
// user instead of the channel.
func (r StartCallRequest) personalMeeting() bool {
	return r.Scheme == domain.NamingSchemeMattermost && r.Channel.IsPersonal()
}

func (r StartCallRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Channel.ID.String()) == "":
		return fmt.Errorf("%w: channel id is required", domain.ErrInvalidContext)
	case strings.TrimSpace(r.Channel.Name) == "":
		return fmt.Errorf("%w: channel name is required", domain.ErrInvalidContext)
	case strings.TrimSpace(r.Team.Name) == "" && !r.personalMeeting():
		return fmt.Errorf("%w: team name is required", domain.ErrInvalidContext)
	case strings.TrimSpace(r.UserID.String()) == "":
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidContext)
	}
	return nil
}

type CallService struct {
	submitter port.MessageSubmitter
	baseURL   string
	now       func() time.Time
}

func NewCallService(submitter port.MessageSubmitter, baseURL string) *CallService {
	return &CallService{
		submitter: submitter,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// StartCall names a meeting for the channel and posts it there. The message
// is handed to the submitter exactly once.
func (s *CallService) StartCall(ctx context.Context, req StartCallRequest) (domain.Message, error) {
	if err := req.validate(); err != nil {
		return domain.Message{}, err
	}

	id, topic := s.meetingName(req)
	props := domain.BuildMeetingProps(s.baseURL, id)
	if topic != "" {
		props.Topic = topic
	}
	props.Personal = req.personalMeeting()
	msg := domain.NewMeetingMessage(req.Channel.ID, req.UserID, props, s.now().UTC())

	posted, err := s.submitter.Submit(ctx, msg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("submit meeting post: %w", err)
	}

	log.Info().
		Str("channel_id", req.Channel.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("call_name", id.String()).
		Msg("Meeting started")
	return posted, nil
}

func (s *CallService) meetingName(req StartCallRequest) (domain.MeetingIdentifier, string) {
	switch req.Scheme {
	case domain.NamingSchemeUUID:
		return domain.MeetingIdentifier(naming.UUID()), ""
	case domain.NamingSchemeWords:
		return domain.MeetingIdentifier(naming.Words()), ""
	case domain.NamingSchemeMattermost:
		if req.personalMeeting() {
			name := req.Username
			if strings.TrimSpace(name) == "" {
				name = req.UserID.String()
			}
			return domain.MeetingIdentifier(naming.Personal(name)), name + "'s Personal Meeting"
		}
		return domain.MeetingIdentifier(naming.TeamChannel(req.Team.Name, req.Channel.Name)), req.Channel.Name + " Channel Meeting"
	default:
		return domain.DeriveMeetingName(req.Team.Name, req.Channel.Name), ""
	}
}
