package attendance

import (
	"math"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// PunchRequest carries the client-observed position and public IP for
// punch-in, punch-out and the validate-location dry run. EmployeeID is
// filled from the token claims by the handler, never from the body.
type PunchRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IPAddress  string  `json:"ipAddress"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if validator.IsEmpty(r.IPAddress) {
		errs = append(errs, validator.ValidationError{
			Field:   "ipAddress",
			Message: "ipAddress is required",
		})
	} else if !validator.IsValidIP(r.IPAddress) {
		errs = append(errs, validator.ValidationError{
			Field:   "ipAddress",
			Message: "ipAddress must be a valid IPv4 or IPv6 address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HeartbeatRequest deliberately has no Validate: a heartbeat with missing or
// malformed data is still processed and treated as outside the office, never
// rejected at the door.
type HeartbeatRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IPAddress  string  `json:"ipAddress"`
}

type MyAttendanceFilter struct {
	EmployeeID string `json:"-"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != 0 && !validator.IsValidMonth(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Year != 0 && (f.Year < 2000 || f.Year > 2100) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type AttendanceDayResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	Date            string     `json:"date"`
	PunchIn         *time.Time `json:"punchIn,omitempty"`
	PunchOut        *time.Time `json:"punchOut,omitempty"`
	IsCurrentlyIn   bool       `json:"isCurrentlyIn"`
	PunchInCount    int        `json:"punchInCount"`
	OutCount        int        `json:"outCount"`
	TotalOutMinutes int        `json:"totalOutTimeMinutes"`
	LastHeartbeat   *time.Time `json:"lastHeartbeat,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	IPAddress       *string    `json:"ipAddress,omitempty"`
	DistanceMeters  *float64   `json:"distanceMeters,omitempty"`
	Status          string     `json:"status"`
	IsAutoPunched   bool       `json:"isAutoPunchedOut"`
}

type PunchEventResponse struct {
	PunchInID    string     `json:"punchInId"`
	PunchInTime  time.Time  `json:"punchInTime"`
	PunchOutTime *time.Time `json:"punchOutTime,omitempty"`
	IsActive     bool       `json:"isActive"`
}

type OutPeriodResponse struct {
	ID              string     `json:"id"`
	OutTime         time.Time  `json:"outTime"`
	InTime          *time.Time `json:"inTime,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Reason          string     `json:"reason"`
	IsActive        bool       `json:"isActive"`
}

type PunchInResponse struct {
	Attendance    AttendanceDayResponse `json:"attendance"`
	PunchEvents   []PunchEventResponse  `json:"punchEvents"`
	PunchInCount  int                   `json:"punchInCount"`
	PunchOutCount int                   `json:"punchOutCount"`
}

type PunchOutResponse struct {
	Attendance        AttendanceDayResponse `json:"attendance"`
	OutCount          int                   `json:"outCount"`
	TotalOutMinutes   int                   `json:"totalOutTimeMinutes"`
	TotalOutHours     float64               `json:"totalOutTimeHours"`
	NetWorkingMinutes int                   `json:"netWorkingMinutes"`
	NetWorkingHours   float64               `json:"netWorkingHours"`
	TotalTimeMinutes  int                   `json:"totalTimeMinutes"`
	TotalTimeHours    float64               `json:"totalTimeHours"`
	OutSessions       []OutPeriodResponse   `json:"outSessions"`
	Status            string                `json:"status"`
}

type TodayStatusResponse struct {
	PunchedIn         bool                `json:"punchedIn"`
	PunchInTime       *time.Time          `json:"punchInTime"`
	PunchOutTime      *time.Time          `json:"punchOutTime"`
	InsideOffice      *bool               `json:"insideOffice"`
	LastHeartbeat     *time.Time          `json:"lastHeartbeat,omitempty"`
	OutCount          int                 `json:"outCount"`
	TotalOutMinutes   int                 `json:"totalOutTimeMinutes"`
	TotalOutHours     float64             `json:"totalOutTimeHours"`
	NetWorkingMinutes int                 `json:"netWorkingMinutes"`
	NetWorkingHours   float64             `json:"netWorkingHours"`
	TotalTimeMinutes  int                 `json:"totalTimeMinutes"`
	OutSessions       []OutPeriodResponse `json:"outSessions"`
	Status            string              `json:"status"`
}

type PresenceStatusResponse struct {
	PunchedIn       bool       `json:"punchedIn"`
	InsideOffice    bool       `json:"insideOffice"`
	Status          string     `json:"status"`
	PunchOutTime    *time.Time `json:"punchOutTime,omitempty"`
	LastHeartbeat   *time.Time `json:"lastHeartbeat,omitempty"`
	OutCount        int        `json:"outCount"`
	TotalOutMinutes int        `json:"totalOutTimeMinutes"`
}

type HeartbeatResponse struct {
	PunchedIn          bool       `json:"punchedIn"`
	Message            string     `json:"message"`
	InsideOffice       *bool      `json:"insideOffice,omitempty"`
	Status             string     `json:"status,omitempty"`
	LocationValid      bool       `json:"locationValid"`
	WifiValid          bool       `json:"wifiValid"`
	OutTime            *time.Time `json:"outTime,omitempty"`
	InTime             *time.Time `json:"inTime,omitempty"`
	OutDurationMinutes *int       `json:"outDurationMinutes,omitempty"`
}

type OfficeLocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius"`
	IP        string  `json:"ip"`
}

type EmployeeLocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IP        string  `json:"ip"`
}

type ValidateLocationResponse struct {
	Valid            bool                 `json:"valid"`
	LocationValid    bool                 `json:"locationValid"`
	WifiValid        bool                 `json:"wifiValid"`
	DistanceMeters   *float64             `json:"distance,omitempty"`
	Message          string               `json:"message"`
	LocationError    *string              `json:"locationError"`
	WifiError        *string              `json:"wifiError"`
	OfficeLocation   OfficeLocationInfo   `json:"officeLocation"`
	EmployeeLocation EmployeeLocationInfo `json:"employeeLocation"`
}

type ListAttendanceResponse struct {
	Attendances []AttendanceDayResponse `json:"attendances"`
}

// MinutesToHours converts minutes to fractional hours rounded to two
// decimals, the precision the original reports used.
func MinutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60.0*100) / 100
}
