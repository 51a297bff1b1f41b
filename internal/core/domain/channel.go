package domain

// ChannelType uses the chat host's one-letter codes.
type ChannelType string

const (
	ChannelTypeOpen    ChannelType = "O"
	ChannelTypePrivate ChannelType = "P"
	ChannelTypeDirect  ChannelType = "D"
	ChannelTypeGroup   ChannelType = "G"
)

type Channel struct {
	ID     ChannelID   `json:"id"`
	Name   string      `json:"name"`
	Type   ChannelType `json:"type,omitempty"`
	TeamID string      `json:"team_id,omitempty"`
}

// IsPersonal reports whether the channel is a direct or group conversation
// rather than a team channel.
func (c Channel) IsPersonal() bool {
	return c.Type == ChannelTypeDirect || c.Type == ChannelTypeGroup
}

type Team struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}
