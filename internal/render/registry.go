package render

import "github.com/Wyydra/meet/internal/core/domain"

// PostRenderer is implemented by components that render one post type.
type PostRenderer interface {
	Render(msg *domain.Message) *InvitationCard
}

// Registry maps post types to renderers. Posts of any other type are left to
// the host's default text rendering.
type Registry struct {
	renderers map[string]PostRenderer
}

func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]PostRenderer)}
}

func (r *Registry) Register(postType string, pr PostRenderer) {
	r.renderers[postType] = pr
}

// RenderPost returns the card for msg and whether a renderer claimed it.
func (r *Registry) RenderPost(msg *domain.Message) (*InvitationCard, bool) {
	if msg == nil {
		return nil, false
	}
	pr, ok := r.renderers[msg.Type]
	if !ok {
		return nil, false
	}
	card := pr.Render(msg)
	return card, card != nil
}
