package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wyydra/meet/internal/core/domain"
	"github.com/Wyydra/meet/internal/core/port"
	"github.com/rs/zerolog/log"
)

type UserConfigService struct {
	repo          port.UserConfigRepository
	gateway       port.RealTimeGateway
	publisher     port.EventPublisher
	defaultScheme domain.NamingScheme
}

// NewUserConfigService builds the service. publisher may be nil when the
// server runs as a single instance.
func NewUserConfigService(repo port.UserConfigRepository, gateway port.RealTimeGateway, publisher port.EventPublisher, defaultScheme domain.NamingScheme) *UserConfigService {
	if !defaultScheme.Valid() {
		defaultScheme = domain.NamingSchemeChannel
	}
	return &UserConfigService{
		repo:          repo,
		gateway:       gateway,
		publisher:     publisher,
		defaultScheme: defaultScheme,
	}
}

func (s *UserConfigService) Get(ctx context.Context, userID domain.UserID) (domain.UserConfig, error) {
	cfg, err := s.repo.GetUserConfig(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UserConfig{NamingScheme: s.defaultScheme}, nil
	}
	if err != nil {
		return domain.UserConfig{}, fmt.Errorf("get user config: %w", err)
	}
	if !cfg.NamingScheme.Valid() {
		cfg.NamingScheme = s.defaultScheme
	}
	return cfg, nil
}

// Set stores cfg and tells the user's clients to re-sync.
func (s *UserConfigService) Set(ctx context.Context, userID domain.UserID, cfg domain.UserConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.repo.SaveUserConfig(ctx, userID, cfg); err != nil {
		return fmt.Errorf("save user config: %w", err)
	}

	event := domain.NewConfigChangeEvent(userID)
	if s.publisher != nil {
		// Every instance, this one included, receives it from the bus.
		err := s.publisher.PublishEvent(ctx, event)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to publish config change, notifying local clients only")
	}
	if err := s.gateway.PublishEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to push config change")
	}
	return nil
}
