package response

import (
	"errors"
	"net/http"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/auth"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/employee"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/geofence"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the measured values; the client renders the
	// message as-is.
	var outsideRadius *attendance.OutsideRadiusError
	if errors.As(err, &outsideRadius) {
		Forbidden(w, outsideRadius.Error())
		return
	}
	var wrongNetwork *attendance.WrongNetworkError
	if errors.As(err, &wrongNetwork) {
		Forbidden(w, wrongNetwork.Error())
		return
	}

	switch {
	// Malformed punch payloads
	case errors.Is(err, geofence.ErrInvalidCoordinates),
		errors.Is(err, geofence.ErrInvalidIPAddress):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		Conflict(w, "Already punched in, punch out first")
	case errors.Is(err, attendance.ErrMaxPunchesReached):
		Conflict(w, "Maximum punches for today reached")
	case errors.Is(err, attendance.ErrOnApprovedLeave):
		Conflict(w, "Cannot punch in on an approved leave day")
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		Conflict(w, "Already punched out for this session")
	case errors.Is(err, attendance.ErrNoAttendanceToday):
		BadRequest(w, "No attendance record for today, punch in first", nil)
	case errors.Is(err, attendance.ErrNotPunchedIn):
		BadRequest(w, "Not currently punched in", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
