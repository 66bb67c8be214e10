package settings

import (
	"context"
	"fmt"
	"log/slog"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// SettingsService provides per-workspace settings. A workspace that has
// never saved settings reads back the defaults without a row being written.
type SettingsService struct {
	repo SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the workspace settings, falling back to defaults when none
// have been saved
func (s *SettingsService) Get(ctx context.Context, workspaceIdentity string) (Settings, error) {
	current, err := s.repo.GetSettings(ctx, workspaceIdentity)
	if err != nil {
		if errs.IsCode(err, errs.ErrCodeNotFound) {
			return Defaults(workspaceIdentity), nil
		}
		return Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return current, nil
}

// Update applies a partial update and persists the merged settings. Starting
// from the current (or default) values keeps omitted fields unchanged.
func (s *SettingsService) Update(ctx context.Context, workspaceIdentity string, params UpdateSettingsParams) (Settings, error) {
	current, err := s.Get(ctx, workspaceIdentity)
	if err != nil {
		return Settings{}, err
	}

	if params.ShopName != nil {
		current.ShopName = *params.ShopName
	}
	if params.Currency != nil {
		current.Currency = *params.Currency
	}
	if params.MeasurementUnit != nil {
		current.MeasurementUnit = *params.MeasurementUnit
	}
	if params.OrderPrefix != nil {
		current.OrderPrefix = *params.OrderPrefix
	}

	updated, err := s.repo.UpsertSettings(ctx, current)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	slog.Info("Settings updated", "workspace", workspaceIdentity)
	return updated, nil
}

// OrderPrefix returns the order number prefix for a workspace. It satisfies
// the prefix provider consumed by the order service.
func (s *SettingsService) OrderPrefix(ctx context.Context, workspaceIdentity string) (string, error) {
	current, err := s.Get(ctx, workspaceIdentity)
	if err != nil {
		return "", err
	}
	if current.OrderPrefix == "" {
		return DefaultOrderPrefix, nil
	}
	return current.OrderPrefix, nil
}
