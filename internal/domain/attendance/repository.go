package attendance

import (
	"context"
	"time"
)

// AttendanceDayRepository defines data access for per-employee-per-day
// records. The ForUpdate variant takes a row lock and must be called inside
// a transaction; every read-modify-write of session state goes through it.
type AttendanceDayRepository interface {
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// GetByEmployeeAndDate returns nil when no record exists for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (*AttendanceDay, error)

	// GetByEmployeeAndDateForUpdate locks the row for the duration of the
	// surrounding transaction.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, date string) (*AttendanceDay, error)

	Update(ctx context.Context, day AttendanceDay) error

	// ListByEmployee returns records for a month (1-12) and year, newest
	// first. A zero month/year returns the most recent 30 records.
	ListByEmployee(ctx context.Context, employeeID string, month, year int) ([]AttendanceDay, error)

	// GetStaleHeartbeats returns open sessions for the given date whose last
	// heartbeat is missing or older than cutoff.
	GetStaleHeartbeats(ctx context.Context, date string, cutoff time.Time) ([]AttendanceDay, error)
}

// PunchEventRepository defines data access for punch-in events.
type PunchEventRepository interface {
	Create(ctx context.Context, event PunchEvent) (PunchEvent, error)

	// GetActive returns the single active punch event for a day, or nil.
	GetActive(ctx context.Context, attendanceID string) (*PunchEvent, error)

	CountByAttendance(ctx context.Context, attendanceID string) (int, error)

	// Deactivate matches the event with a punch-out and clears its active flag.
	Deactivate(ctx context.Context, id string, punchOutTime time.Time) error

	ListByAttendance(ctx context.Context, attendanceID string) ([]PunchEvent, error)
}

// OutPeriodRepository defines data access for out-of-office excursions.
type OutPeriodRepository interface {
	Open(ctx context.Context, period OutPeriod) (OutPeriod, error)

	// GetOpen returns the currently open excursion for a day, or nil.
	GetOpen(ctx context.Context, attendanceID string) (*OutPeriod, error)

	Close(ctx context.Context, id string, inTime time.Time, durationMinutes int, reason string) error

	ListByAttendance(ctx context.Context, attendanceID string) ([]OutPeriod, error)

	// SumClosedMinutes totals the durations of all closed excursions for a
	// day. Used to recompute cumulative out-time defensively on punch-out.
	SumClosedMinutes(ctx context.Context, attendanceID string) (int, error)
}
