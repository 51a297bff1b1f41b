package domain

import (
	"fmt"
	"maps"
)

// ConfigChangeEvent is pushed to a user whenever their feature config changes.
const ConfigChangeEvent = "custom_gmeet_config_update"

// FeatureConfig is the server-controlled feature state. It is always replaced
// as a whole, never merged.
type FeatureConfig map[string]any

func (c FeatureConfig) Clone() FeatureConfig {
	if c == nil {
		return FeatureConfig{}
	}
	return maps.Clone(c)
}

const ConfigKeyNamingScheme = "naming_scheme"

type NamingScheme string

const (
	// NamingSchemeChannel derives the name from the team and channel.
	NamingSchemeChannel NamingScheme = "channel"
	NamingSchemeUUID    NamingScheme = "uuid"
	// NamingSchemeWords joins random words.
	NamingSchemeWords NamingScheme = "words"
	// NamingSchemeMattermost gives direct and group conversations a personal
	// meeting and team channels a suffixed channel meeting.
	NamingSchemeMattermost NamingScheme = "mattermost"
)

func (s NamingScheme) Valid() bool {
	switch s {
	case NamingSchemeChannel, NamingSchemeUUID, NamingSchemeWords, NamingSchemeMattermost:
		return true
	default:
		return false
	}
}

// UserConfig is the typed, per-user view of FeatureConfig kept by the server.
type UserConfig struct {
	NamingScheme NamingScheme `json:"naming_scheme"`
}

func (c UserConfig) Validate() error {
	if !c.NamingScheme.Valid() {
		return fmt.Errorf("%w: unknown naming scheme %q", ErrInvalidConfig, c.NamingScheme)
	}
	return nil
}

func (c UserConfig) FeatureConfig() FeatureConfig {
	return FeatureConfig{ConfigKeyNamingScheme: string(c.NamingScheme)}
}
