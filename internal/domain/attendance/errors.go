package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Punch-in errors
	ErrAlreadyPunchedIn  = errors.New("you are already punched in, please punch out first")
	ErrMaxPunchesReached = errors.New("maximum punch ins allowed per day reached")
	ErrOnApprovedLeave   = errors.New("cannot mark attendance on approved leave dates")

	// Punch-out errors
	ErrNoAttendanceToday = errors.New("no attendance record found for today")
	ErrNotPunchedIn      = errors.New("must punch in before punching out")
	ErrAlreadyPunchedOut = errors.New("already punched out for today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutsideRadiusError reports a geofence rejection with the computed distance
// so clients see exactly how far outside the perimeter they are.
type OutsideRadiusError struct {
	DistanceMeters float64
	RadiusMeters   int
}

func (e *OutsideRadiusError) Error() string {
	return fmt.Sprintf("location is %.2f meters away from office, must be within %d meters",
		e.DistanceMeters, e.RadiusMeters)
}

// WrongNetworkError reports a Wi-Fi rejection with both IPs so clients can
// tell which network they are actually on.
type WrongNetworkError struct {
	ObservedIP string
	OfficeIP   string
}

func (e *WrongNetworkError) Error() string {
	return fmt.Sprintf("not connected to office Wi-Fi, your IP: %s, office IP: %s",
		e.ObservedIP, e.OfficeIP)
}
