package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/Wyydra/meet/internal/core/state"
	"github.com/rs/zerolog/log"
)

type ConfigSyncService struct {
	source port.ConfigSource
	store  *state.Store
}

func NewConfigSyncService(source port.ConfigSource, store *state.Store) *ConfigSyncService {
	return &ConfigSyncService{
		source: source,
		store:  store,
	}
}

// Sync fetches the current config and replaces the stored one. On failure the
// store keeps its previous value.
func (s *ConfigSyncService) Sync(ctx context.Context) error {
	cfg, err := s.source.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigFetch, err)
	}
	if cfg == nil {
		cfg = domain.FeatureConfig{}
	}
	s.store.Dispatch(state.ConfigReceived(cfg))
	return nil
}

// Watch syncs once per config change event until events is closed or ctx is
// done. A failed sync is retried by the next event.
func (s *ConfigSyncService) Watch(ctx context.Context, events <-chan domain.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Name != domain.ConfigChangeEvent {
				continue
			}
			if err := s.Sync(ctx); err != nil {
				log.Warn().Err(err).Msg("Config sync failed")
				continue
			}
			log.Debug().Msg("Config synced")
		}
	}
}
