package settings

import (
	"context"
	"sync"
	"time"
)

// InMemSettingsRepository implements SettingsRepository in memory for tests
// and local development
type InMemSettingsRepository struct {
	mutex    sync.Mutex
	settings map[string]Settings
}

// NewInMemSettingsRepository creates a new in-memory settings repository
func NewInMemSettingsRepository() *InMemSettingsRepository {
	return &InMemSettingsRepository{
		settings: make(map[string]Settings),
	}
}

func (r *InMemSettingsRepository) GetSettings(ctx context.Context, workspaceIdentity string) (Settings, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.settings[workspaceIdentity]
	if !ok {
		return Settings{}, notFoundError(workspaceIdentity)
	}
	return s, nil
}

func (r *InMemSettingsRepository) UpsertSettings(ctx context.Context, s Settings) (Settings, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.settings[s.WorkspaceIdentity]; ok {
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	r.settings[s.WorkspaceIdentity] = s
	return s, nil
}

// WithTx is a no-op for the in-memory repository
func (r *InMemSettingsRepository) WithTx(tx interface{}) SettingsRepository {
	return r
}
