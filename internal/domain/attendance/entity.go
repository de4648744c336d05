package attendance

import (
	"time"
)

// Day statuses. The string values are persisted and consumed by external
// reporting, so they must not change.
const (
	StatusNotPunchedIn  = "NOT_PUNCHED_IN"
	StatusInsideOffice  = "INSIDE_OFFICE"
	StatusOutOfOffice   = "OUT_OF_OFFICE"
	StatusPresent       = "PRESENT"
	StatusHalfDay       = "HALF_DAY"
	StatusAbsent        = "ABSENT"
	StatusIncomplete    = "INCOMPLETE"
	StatusPunchedOut    = "PUNCHED_OUT"
	StatusOutsideOffice = "OUTSIDE_OFFICE"
)

// OutPeriod reasons.
const (
	ReasonGeoFenceExit     = "GEO_FENCE_EXIT"
	ReasonIPChange         = "IP_CHANGE"
	ReasonManual           = "MANUAL"
	ReasonHeartbeatTimeout = "HEARTBEAT_TIMEOUT"
)

// AttendanceDay is one record per employee per local calendar day. At most
// one active punch-in session exists per record at any time.
type AttendanceDay struct {
	ID               string
	EmployeeID       string
	Date             string // YYYY-MM-DD
	PunchIn          *time.Time
	PunchOut         *time.Time
	CurrentPunchInID *string
	IsCurrentlyIn    bool
	PunchInCount     int
	OutCount         int
	TotalOutMinutes  int
	LastHeartbeat    *time.Time
	Latitude         *float64
	Longitude        *float64
	IPAddress        *string
	DistanceMeters   *float64
	Status           string
	IsAutoPunchedOut bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PunchEvent is one row per punch-in action. IsActive stays true until the
// event is matched by a punch-out.
type PunchEvent struct {
	ID             string
	AttendanceID   string
	EmployeeID     string
	Date           string
	PunchInTime    time.Time
	PunchOutTime   *time.Time
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
	IPAddress      string
	IsActive       bool
}

// OutPeriod is one detected excursion outside the valid perimeter while a
// session is active. InTime and DurationMinutes stay nil while the excursion
// is ongoing; at most one OutPeriod per day is open at a time.
type OutPeriod struct {
	ID              string
	AttendanceID    string
	OutTime         time.Time
	InTime          *time.Time
	DurationMinutes *int
	Reason          string
}

// IsOpen reports whether the excursion is still ongoing.
func (p OutPeriod) IsOpen() bool {
	return p.InTime == nil
}

// StatusForNetMinutes derives the end-of-day status from net working time.
// Thresholds are 4 hours and 8 hours, both boundaries inclusive upward.
func StatusForNetMinutes(netWorkingMinutes, halfDayMinutes, fullDayMinutes int) string {
	switch {
	case netWorkingMinutes < halfDayMinutes:
		return StatusAbsent
	case netWorkingMinutes < fullDayMinutes:
		return StatusHalfDay
	default:
		return StatusPresent
	}
}
