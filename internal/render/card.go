// Package render turns meeting posts into invitation cards.
package render

import (
	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/i18n"
)

// TargetNewWindow asks the host to open the join link in a new browsing
// context.
const TargetNewWindow = "_blank"

type JoinControl struct {
	Label  string
	URL    string
	Target string
}

type InvitationCard struct {
	Pretext  string
	Title    string
	Subtitle string
	CallName domain.MeetingIdentifier
	Join     JoinControl
}

type Renderer struct {
	l *i18n.Localizer
}

func NewRenderer(l *i18n.Localizer) *Renderer {
	return &Renderer{l: l}
}

// Render builds the card for a meeting post. A nil message renders nothing.
// The message type is not checked here; see Registry.
func (r *Renderer) Render(msg *domain.Message) *InvitationCard {
	if msg == nil {
		return nil
	}
	props, _ := msg.MeetingProps()
	return &InvitationCard{
		Pretext:  r.l.T(i18n.KeyMessagePretext),
		Title:    r.l.T(i18n.KeyMessageTitle),
		Subtitle: r.l.T(i18n.KeyMessageSubtitle) + ": " + props.CallName.String(),
		CallName: props.CallName,
		Join: JoinControl{
			Label:  r.l.T(i18n.KeyMessageButton),
			URL:    props.MeetingLink,
			Target: TargetNewWindow,
		},
	}
}
