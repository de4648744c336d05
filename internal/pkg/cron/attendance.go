package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
)

// AttendanceJobs holds the background maintenance jobs for attendance data.
type AttendanceJobs struct {
	txm            database.TxManager
	dayRepo        attendance.AttendanceDayRepository
	punchRepo      attendance.PunchEventRepository
	outRepo        attendance.OutPeriodRepository
	staleThreshold time.Duration
	now            func() time.Time
}

func NewAttendanceJobs(
	txm database.TxManager,
	dayRepo attendance.AttendanceDayRepository,
	punchRepo attendance.PunchEventRepository,
	outRepo attendance.OutPeriodRepository,
	staleThreshold time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		txm:            txm,
		dayRepo:        dayRepo,
		punchRepo:      punchRepo,
		outRepo:        outRepo,
		staleThreshold: staleThreshold,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, sweepInterval time.Duration) {
	scheduler.AddJob("heartbeat_timeout_sweep", sweepInterval, j.CheckHeartbeatTimeouts)
}

// CheckHeartbeatTimeouts force-closes open sessions whose client stopped
// sending heartbeats. Each stale session is handled in its own transaction
// with a fresh row lock so one failure never blocks the rest of the sweep,
// and a heartbeat or punch-out racing the sweep wins.
func (j *AttendanceJobs) CheckHeartbeatTimeouts(ctx context.Context) error {
	now := j.now().UTC()
	today := now.Format("2006-01-02")
	cutoff := now.Add(-j.staleThreshold)

	stale, err := j.dayRepo.GetStaleHeartbeats(ctx, today, cutoff)
	if err != nil {
		return fmt.Errorf("failed to query stale heartbeats: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	slog.Info("Cron: Stale heartbeat sessions found", "count", len(stale))

	closedCount := 0
	for _, candidate := range stale {
		if err := j.closeStaleSession(ctx, candidate.EmployeeID, today, cutoff, now); err != nil {
			slog.Error("Cron: Failed to force punch-out",
				"attendance_id", candidate.ID,
				"employee_id", candidate.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: Heartbeat timeout sweep completed", "closed", closedCount)
	return nil
}

func (j *AttendanceJobs) closeStaleSession(ctx context.Context, employeeID, date string, cutoff, now time.Time) error {
	return j.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := j.dayRepo.GetByEmployeeAndDateForUpdate(txCtx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to load attendance day: %w", err)
		}
		if day == nil || day.PunchIn == nil || day.PunchOut != nil {
			return nil // closed between the scan and the lock
		}
		if day.LastHeartbeat != nil && !day.LastHeartbeat.Before(cutoff) {
			return nil // heartbeat arrived in the meantime
		}

		active, err := j.punchRepo.GetActive(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check active punch event: %w", err)
		}
		if active != nil {
			if err := j.punchRepo.Deactivate(txCtx, active.ID, now); err != nil {
				return fmt.Errorf("failed to deactivate punch event: %w", err)
			}
		}

		open, err := j.outRepo.GetOpen(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check open out period: %w", err)
		}
		if open != nil {
			duration := int(now.Sub(open.OutTime).Minutes())
			if err := j.outRepo.Close(txCtx, open.ID, now, duration, attendance.ReasonHeartbeatTimeout); err != nil {
				return fmt.Errorf("failed to close open out period: %w", err)
			}
			day.TotalOutMinutes += duration
		}

		day.PunchOut = &now
		day.IsCurrentlyIn = false
		day.CurrentPunchInID = nil
		day.Status = attendance.StatusIncomplete
		day.IsAutoPunchedOut = true

		if err := j.dayRepo.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update attendance day: %w", err)
		}

		slog.Info("Cron: Force punched out stale session",
			"attendance_id", day.ID,
			"employee_id", day.EmployeeID,
			"last_heartbeat", fmt.Sprint(day.LastHeartbeat))
		return nil
	})
}
