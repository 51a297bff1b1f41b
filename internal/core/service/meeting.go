package service

import (
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/state"
)

type MeetingService struct {
	store *state.Store
}

func NewMeetingService(store *state.Store) *MeetingService {
	return &MeetingService{store: store}
}

// Open records msg as the most recently opened meeting and returns the link
// to open. Non-meeting messages are ignored.
func (s *MeetingService) Open(msg *domain.Message) (string, bool) {
	if msg == nil || !msg.IsMeeting() {
		return "", false
	}
	props, ok := msg.MeetingProps()
	if !ok || props.MeetingLink == "" {
		return "", false
	}
	opened := *msg
	s.store.Dispatch(state.OpenMeeting(&opened))
	return props.MeetingLink, true
}

// LatestMeeting returns the newest meeting post in feed.
func LatestMeeting(feed []domain.Message) (*domain.Message, bool) {
	for i := len(feed) - 1; i >= 0; i-- {
		if feed[i].IsMeeting() {
			m := feed[i]
			return &m, true
		}
	}
	return nil, false
}
