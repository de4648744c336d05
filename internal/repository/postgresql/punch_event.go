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

type punchEventRepository struct {
	db *database.DB
}

func NewPunchEventRepository(db *database.DB) attendance.PunchEventRepository {
	return &punchEventRepository{db: db}
}

const punchEventColumns = `
	id, attendance_id, employee_id, date, punch_in_time, punch_out_time,
	latitude, longitude, distance_meters, ip_address, is_active
`

func scanPunchEvent(row pgx.Row) (attendance.PunchEvent, error) {
	var ev attendance.PunchEvent
	err := row.Scan(
		&ev.ID, &ev.AttendanceID, &ev.EmployeeID, &ev.Date, &ev.PunchInTime, &ev.PunchOutTime,
		&ev.Latitude, &ev.Longitude, &ev.DistanceMeters, &ev.IPAddress, &ev.IsActive,
	)
	return ev, err
}

// Create implements attendance.PunchEventRepository.
func (r *punchEventRepository) Create(ctx context.Context, event attendance.PunchEvent) (attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	event.ID = uuid.NewString()
	query := `
		INSERT INTO punch_events (
			id, attendance_id, employee_id, date, punch_in_time,
			latitude, longitude, distance_meters, ip_address, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := q.Exec(ctx, query,
		event.ID,
		event.AttendanceID,
		event.EmployeeID,
		event.Date,
		event.PunchInTime,
		event.Latitude,
		event.Longitude,
		event.DistanceMeters,
		event.IPAddress,
		event.IsActive,
	)
	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetActive implements attendance.PunchEventRepository.
func (r *punchEventRepository) GetActive(ctx context.Context, attendanceID string) (*attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE attendance_id = $1
		  AND is_active = TRUE
		ORDER BY punch_in_time DESC
		LIMIT 1
	`

	ev, err := scanPunchEvent(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no active session
		}
		return nil, fmt.Errorf("failed to get active punch event: %w", err)
	}

	return &ev, nil
}

// CountByAttendance implements attendance.PunchEventRepository.
func (r *punchEventRepository) CountByAttendance(ctx context.Context, attendanceID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM punch_events WHERE attendance_id = $1`, attendanceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count punch events: %w", err)
	}

	return count, nil
}

// Deactivate implements attendance.PunchEventRepository.
func (r *punchEventRepository) Deactivate(ctx context.Context, id string, punchOutTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_events
		SET punch_out_time = $2,
		    is_active = FALSE
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, punchOutTime)
	if err != nil {
		return fmt.Errorf("failed to deactivate punch event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("punch event %s not found", id)
	}

	return nil
}

// ListByAttendance implements attendance.PunchEventRepository.
func (r *punchEventRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchEventColumns + `
		FROM punch_events
		WHERE attendance_id = $1
		ORDER BY punch_in_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	var events []attendance.PunchEvent
	for rows.Next() {
		ev, err := scanPunchEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read punch events: %w", err)
	}

	return events, nil
}
