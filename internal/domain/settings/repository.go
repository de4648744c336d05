package settings

import "context"

// OfficeSettingsRepository persists the office geofence configuration.
type OfficeSettingsRepository interface {
	// Latest returns the most recently saved settings row, or ErrNoSettings.
	Latest(ctx context.Context) (OfficeSettings, error)

	Save(ctx context.Context, s OfficeSettings) (OfficeSettings, error)
}

// Provider resolves the effective office settings, falling back to
// configured defaults when nothing has been saved. Read-only to the
// attendance core.
type Provider interface {
	Get(ctx context.Context) (OfficeSettings, error)
}
