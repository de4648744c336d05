package settings

import "context"

// SettingsService exposes the admin surface over the office geofence plus the
// resolved read side the attendance core consumes.
type SettingsService interface {
	Provider
	GetCurrent(ctx context.Context) (OfficeSettingsResponse, error)
	Update(ctx context.Context, req UpdateOfficeSettingsRequest) (OfficeSettingsResponse, error)
}
