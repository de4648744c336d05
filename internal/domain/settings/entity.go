package settings

import "time"

// OfficeSettings is the reference geofence for the installation. The store
// may hold history; the latest row wins. Defaults from configuration apply
// when nothing has been saved yet.
type OfficeSettings struct {
	ID             string
	Latitude       float64
	Longitude      float64
	RadiusMeters   int
	OfficePublicIP string
	UpdatedBy      *string
	CreatedAt      time.Time
}
