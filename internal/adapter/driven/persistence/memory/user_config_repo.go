package memory

import (
	"context"
	"sync"

	"github.com/Wyydra/meet/internal/core/domain"
)

type UserConfigRepository struct {
	mu      sync.RWMutex
	configs map[domain.UserID]domain.UserConfig
}

func NewUserConfigRepository() *UserConfigRepository {
	return &UserConfigRepository{
		configs: make(map[domain.UserID]domain.UserConfig),
	}
}

func (r *UserConfigRepository) GetUserConfig(ctx context.Context, userID domain.UserID) (domain.UserConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[userID]
	if !ok {
		return domain.UserConfig{}, domain.ErrNotFound
	}
	return cfg, nil
}

func (r *UserConfigRepository) SaveUserConfig(ctx context.Context, userID domain.UserID, cfg domain.UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[userID] = cfg
	return nil
}
