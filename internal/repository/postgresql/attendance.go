package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceDayRepository struct {
	db *database.DB
}

func NewAttendanceDayRepository(db *database.DB) attendance.AttendanceDayRepository {
	return &attendanceDayRepository{db: db}
}

const attendanceDayColumns = `
	id, employee_id, date, punch_in, punch_out, current_punch_in_id,
	is_currently_in, punch_in_count, out_count, total_out_minutes,
	last_heartbeat, latitude, longitude, ip_address, distance_meters,
	status, is_auto_punched_out, created_at, updated_at
`

func scanAttendanceDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Date, &day.PunchIn, &day.PunchOut, &day.CurrentPunchInID,
		&day.IsCurrentlyIn, &day.PunchInCount, &day.OutCount, &day.TotalOutMinutes,
		&day.LastHeartbeat, &day.Latitude, &day.Longitude, &day.IPAddress, &day.DistanceMeters,
		&day.Status, &day.IsAutoPunchedOut, &day.CreatedAt, &day.UpdatedAt,
	)
	return day, err
}

// Create implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	day.ID = uuid.NewString()
	query := `
		INSERT INTO attendance_days (
			id, employee_id, date, punch_in, punch_out, current_punch_in_id,
			is_currently_in, punch_in_count, out_count, total_out_minutes,
			last_heartbeat, latitude, longitude, ip_address, distance_meters,
			status, is_auto_punched_out
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ID,
		day.EmployeeID,
		day.Date,
		day.PunchIn,
		day.PunchOut,
		day.CurrentPunchInID,
		day.IsCurrentlyIn,
		day.PunchInCount,
		day.OutCount,
		day.TotalOutMinutes,
		day.LastHeartbeat,
		day.Latitude,
		day.Longitude,
		day.IPAddress,
		day.DistanceMeters,
		day.Status,
		day.IsAutoPunchedOut,
	).Scan(&day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	return day, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (*attendance.AttendanceDay, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, false)
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, date string) (*attendance.AttendanceDay, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, true)
}

func (r *attendanceDayRepository) getByEmployeeAndDate(ctx context.Context, employeeID, date string, forUpdate bool) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	day, err := scanAttendanceDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance day: %w", err)
	}

	return &day, nil
}

// Update implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) Update(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET punch_in = $2,
		    punch_out = $3,
		    current_punch_in_id = $4,
		    is_currently_in = $5,
		    punch_in_count = $6,
		    out_count = $7,
		    total_out_minutes = $8,
		    last_heartbeat = $9,
		    latitude = $10,
		    longitude = $11,
		    ip_address = $12,
		    distance_meters = $13,
		    status = $14,
		    is_auto_punched_out = $15,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		day.ID,
		day.PunchIn,
		day.PunchOut,
		day.CurrentPunchInID,
		day.IsCurrentlyIn,
		day.PunchInCount,
		day.OutCount,
		day.TotalOutMinutes,
		day.LastHeartbeat,
		day.Latitude,
		day.Longitude,
		day.IPAddress,
		day.DistanceMeters,
		day.Status,
		day.IsAutoPunchedOut,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployee implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) ListByEmployee(ctx context.Context, employeeID string, month, year int) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE employee_id = $1
	`
	args := []interface{}{employeeID}

	if month != 0 && year != 0 {
		query += `
		  AND EXTRACT(MONTH FROM date::date) = $2
		  AND EXTRACT(YEAR FROM date::date) = $3
		ORDER BY date DESC
		`
		args = append(args, month, year)
	} else {
		query += `
		ORDER BY date DESC
		LIMIT 30
		`
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		day, err := scanAttendanceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance days: %w", err)
	}

	return days, nil
}

// GetStaleHeartbeats implements attendance.AttendanceDayRepository.
func (r *attendanceDayRepository) GetStaleHeartbeats(ctx context.Context, date string, cutoff time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE date = $1
		  AND punch_in IS NOT NULL
		  AND punch_out IS NULL
		  AND (last_heartbeat IS NULL OR last_heartbeat < $2)
	`

	rows, err := q.Query(ctx, query, date, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale heartbeats: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		day, err := scanAttendanceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale heartbeats: %w", err)
	}

	return days, nil
}
