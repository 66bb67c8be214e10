package settings

import (
	"context"

	errs "github.com/Meetparmar40/tailors-track/pkg/errors"
)

// SettingsRepository defines the interface for settings persistence
type SettingsRepository interface {
	GetSettings(ctx context.Context, workspaceIdentity string) (Settings, error)
	UpsertSettings(ctx context.Context, s Settings) (Settings, error)
	WithTx(tx interface{}) SettingsRepository
}

func notFoundError(workspaceIdentity string) error {
	return errs.Newf(errs.ErrCodeNotFound, "settings not found for workspace: %s", workspaceIdentity)
}
