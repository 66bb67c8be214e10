package settings

import "time"

// Default values applied when a workspace has never saved settings
const (
	DefaultCurrency        = "USD"
	DefaultMeasurementUnit = "cm"
	DefaultOrderPrefix     = "ORD"
)

// Settings is the per-workspace application configuration, one row per
// workspace keyed by the owner identity.
type Settings struct {
	WorkspaceIdentity string    `json:"-"`
	ShopName          string    `json:"shop_name"`
	Currency          string    `json:"currency"`
	MeasurementUnit   string    `json:"measurement_unit"`
	OrderPrefix       string    `json:"order_prefix"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Defaults returns the settings a workspace starts with
func Defaults(workspaceIdentity string) Settings {
	return Settings{
		WorkspaceIdentity: workspaceIdentity,
		Currency:          DefaultCurrency,
		MeasurementUnit:   DefaultMeasurementUnit,
		OrderPrefix:       DefaultOrderPrefix,
	}
}

// UpdateSettingsParams is a partial update; nil fields keep their prior value
type UpdateSettingsParams struct {
	ShopName        *string
	Currency        *string
	MeasurementUnit *string
	OrderPrefix     *string
}
