package attendance

import (
	"context"
)

// AttendanceService is the presence/session reconciliation core: punch
// session management, heartbeat-driven presence tracking and the read-only
// projections the HTTP layer re-exposes.
type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchRequest) (PunchInResponse, error)
	PunchOut(ctx context.Context, req PunchRequest) (PunchOutResponse, error)
	Heartbeat(ctx context.Context, req HeartbeatRequest) (HeartbeatResponse, error)
	ValidateLocation(ctx context.Context, req PunchRequest) (ValidateLocationResponse, error)
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
	GetPresenceStatus(ctx context.Context, employeeID string) (PresenceStatusResponse, error)
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)
}
