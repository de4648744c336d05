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

type outPeriodRepository struct {
	db *database.DB
}

func NewOutPeriodRepository(db *database.DB) attendance.OutPeriodRepository {
	return &outPeriodRepository{db: db}
}

const outPeriodColumns = `
	id, attendance_id, out_time, in_time, duration_minutes, reason
`

func scanOutPeriod(row pgx.Row) (attendance.OutPeriod, error) {
	var p attendance.OutPeriod
	err := row.Scan(&p.ID, &p.AttendanceID, &p.OutTime, &p.InTime, &p.DurationMinutes, &p.Reason)
	return p, err
}

// Open implements attendance.OutPeriodRepository.
func (r *outPeriodRepository) Open(ctx context.Context, period attendance.OutPeriod) (attendance.OutPeriod, error) {
	q := GetQuerier(ctx, r.db)

	period.ID = uuid.NewString()
	query := `
		INSERT INTO out_periods (id, attendance_id, out_time, reason)
		VALUES ($1, $2, $3, $4)
	`

	_, err := q.Exec(ctx, query, period.ID, period.AttendanceID, period.OutTime, period.Reason)
	if err != nil {
		return attendance.OutPeriod{}, fmt.Errorf("failed to open out period: %w", err)
	}

	return period, nil
}

// GetOpen implements attendance.OutPeriodRepository.
func (r *outPeriodRepository) GetOpen(ctx context.Context, attendanceID string) (*attendance.OutPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + outPeriodColumns + `
		FROM out_periods
		WHERE attendance_id = $1
		  AND in_time IS NULL
		ORDER BY out_time DESC
		LIMIT 1
	`

	p, err := scanOutPeriod(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no ongoing excursion
		}
		return nil, fmt.Errorf("failed to get open out period: %w", err)
	}

	return &p, nil
}

// Close implements attendance.OutPeriodRepository.
func (r *outPeriodRepository) Close(ctx context.Context, id string, inTime time.Time, durationMinutes int, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE out_periods
		SET in_time = $2,
		    duration_minutes = $3,
		    reason = $4
		WHERE id = $1
		  AND in_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, inTime, durationMinutes, reason)
	if err != nil {
		return fmt.Errorf("failed to close out period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("out period %s not found or already closed", id)
	}

	return nil
}

// ListByAttendance implements attendance.OutPeriodRepository.
func (r *outPeriodRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.OutPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + outPeriodColumns + `
		FROM out_periods
		WHERE attendance_id = $1
		ORDER BY out_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list out periods: %w", err)
	}
	defer rows.Close()

	var periods []attendance.OutPeriod
	for rows.Next() {
		p, err := scanOutPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan out period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read out periods: %w", err)
	}

	return periods, nil
}

// SumClosedMinutes implements attendance.OutPeriodRepository.
func (r *outPeriodRepository) SumClosedMinutes(ctx context.Context, attendanceID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM out_periods
		WHERE attendance_id = $1
		  AND in_time IS NOT NULL
	`

	var total int
	if err := q.QueryRow(ctx, query, attendanceID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum out periods: %w", err)
	}

	return total, nil
}
