package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/geofence"
)

// Heartbeat implements attendance.AttendanceService. Heartbeats are fail-safe
// toward "outside": malformed coordinates, an unparsable IP or a settings
// lookup failure all count as an exit signal rather than an error.
func (a *AttendanceServiceImpl) Heartbeat(ctx context.Context, req attendance.HeartbeatRequest) (attendance.HeartbeatResponse, error) {
	now := a.now().UTC()
	today := now.Format("2006-01-02")

	isOutside := true
	var result geofence.Result

	_, office, err := a.office(ctx)
	if err != nil {
		slog.Warn("heartbeat treating employee as outside, office settings unavailable",
			slog.String("employee_id", req.EmployeeID),
			slog.Any("error", err),
		)
	} else {
		result, err = geofence.Validate(req.Latitude, req.Longitude, req.IPAddress, office)
		if err != nil {
			slog.Warn("heartbeat treating employee as outside, malformed payload",
				slog.String("employee_id", req.EmployeeID),
				slog.Any("error", err),
			)
			result = geofence.Result{}
		} else {
			isOutside = !result.Valid
		}
	}

	var resp attendance.HeartbeatResponse
	err = a.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.dayRepo.GetByEmployeeAndDateForUpdate(txCtx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load attendance day: %w", err)
		}
		if day == nil || day.PunchIn == nil {
			resp = attendance.HeartbeatResponse{
				PunchedIn: false,
				Message:   "not punched in today, heartbeat ignored",
			}
			return nil
		}
		if day.PunchOut != nil {
			resp = attendance.HeartbeatResponse{
				PunchedIn: false,
				Message:   "already punched out, heartbeat ignored",
				Status:    day.Status,
			}
			return nil
		}

		day.LastHeartbeat = &now
		day.Latitude = &req.Latitude
		day.Longitude = &req.Longitude
		day.IPAddress = &req.IPAddress
		day.DistanceMeters = &result.DistanceMeters

		open, err := a.outRepo.GetOpen(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check open out period: %w", err)
		}

		inside := !isOutside
		switch {
		case isOutside && open == nil:
			// Transition in -> out: open an excursion with the cause that
			// tripped first. Location wins when both checks failed.
			reason := attendance.ReasonIPChange
			if !result.LocationValid {
				reason = attendance.ReasonGeoFenceExit
			}

			period, err := a.outRepo.Open(txCtx, attendance.OutPeriod{
				AttendanceID: day.ID,
				OutTime:      now,
				Reason:       reason,
			})
			if err != nil {
				return fmt.Errorf("failed to open out period: %w", err)
			}

			day.OutCount++
			day.Status = attendance.StatusOutOfOffice

			resp = attendance.HeartbeatResponse{
				PunchedIn:     true,
				Message:       "you have left the office area",
				InsideOffice:  &inside,
				Status:        day.Status,
				LocationValid: result.LocationValid,
				WifiValid:     result.WifiValid,
				OutTime:       &period.OutTime,
			}

		case !isOutside && open != nil:
			// Transition out -> in: close the excursion and fold its duration
			// into the day total. The opening reason is preserved.
			duration := minutesBetween(open.OutTime, now)
			if err := a.outRepo.Close(txCtx, open.ID, now, duration, open.Reason); err != nil {
				return fmt.Errorf("failed to close out period: %w", err)
			}

			day.TotalOutMinutes += duration
			day.Status = attendance.StatusInsideOffice

			resp = attendance.HeartbeatResponse{
				PunchedIn:          true,
				Message:            "welcome back to the office",
				InsideOffice:       &inside,
				Status:             day.Status,
				LocationValid:      result.LocationValid,
				WifiValid:          result.WifiValid,
				InTime:             &now,
				OutDurationMinutes: &duration,
			}

		case isOutside:
			// Still out; the excursion stays open, no second period.
			day.Status = attendance.StatusOutOfOffice
			resp = attendance.HeartbeatResponse{
				PunchedIn:     true,
				Message:       "still outside the office area",
				InsideOffice:  &inside,
				Status:        day.Status,
				LocationValid: result.LocationValid,
				WifiValid:     result.WifiValid,
				OutTime:       &open.OutTime,
			}

		default:
			day.Status = attendance.StatusInsideOffice
			resp = attendance.HeartbeatResponse{
				PunchedIn:     true,
				Message:       "heartbeat recorded",
				InsideOffice:  &inside,
				Status:        day.Status,
				LocationValid: result.LocationValid,
				WifiValid:     result.WifiValid,
			}
		}

		if err := a.dayRepo.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update attendance day: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.HeartbeatResponse{}, err
	}

	return resp, nil
}

// GetTodayStatus implements attendance.AttendanceService. Running totals for
// an in-progress day count the open excursion up to now.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	now := a.now().UTC()
	today := now.Format("2006-01-02")

	day, err := a.dayRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	if day == nil || day.PunchIn == nil {
		inside := false
		return attendance.TodayStatusResponse{
			PunchedIn:    false,
			InsideOffice: &inside,
			OutSessions:  []attendance.OutPeriodResponse{},
			Status:       attendance.StatusNotPunchedIn,
		}, nil
	}

	periods, err := a.outRepo.ListByAttendance(ctx, day.ID)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to list out periods: %w", err)
	}

	totalOut := 0
	hasOpen := false
	for _, p := range periods {
		if p.IsOpen() {
			hasOpen = true
			totalOut += minutesBetween(p.OutTime, now)
			continue
		}
		if p.DurationMinutes != nil {
			totalOut += *p.DurationMinutes
		}
	}

	endTime := now
	if day.PunchOut != nil {
		endTime = *day.PunchOut
	}
	totalMinutes := minutesBetween(*day.PunchIn, endTime)
	netMinutes := totalMinutes - totalOut
	if netMinutes < 0 {
		netMinutes = 0
	}

	status := day.Status
	var insideOffice *bool
	if day.PunchOut == nil {
		inside := !hasOpen
		insideOffice = &inside
		if hasOpen {
			status = attendance.StatusOutOfOffice
		} else {
			status = attendance.StatusInsideOffice
		}
	}

	return attendance.TodayStatusResponse{
		PunchedIn:         true,
		PunchInTime:       day.PunchIn,
		PunchOutTime:      day.PunchOut,
		InsideOffice:      insideOffice,
		LastHeartbeat:     day.LastHeartbeat,
		OutCount:          len(periods),
		TotalOutMinutes:   totalOut,
		TotalOutHours:     attendance.MinutesToHours(totalOut),
		NetWorkingMinutes: netMinutes,
		NetWorkingHours:   attendance.MinutesToHours(netMinutes),
		TotalTimeMinutes:  totalMinutes,
		OutSessions:       mapPeriodsToResponse(periods),
		Status:            status,
	}, nil
}

// GetPresenceStatus implements attendance.AttendanceService. Lightweight
// projection for presence dashboards.
func (a *AttendanceServiceImpl) GetPresenceStatus(ctx context.Context, employeeID string) (attendance.PresenceStatusResponse, error) {
	now := a.now().UTC()
	today := now.Format("2006-01-02")

	day, err := a.dayRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.PresenceStatusResponse{}, fmt.Errorf("failed to load attendance day: %w", err)
	}

	if day == nil || day.PunchIn == nil {
		return attendance.PresenceStatusResponse{
			PunchedIn:    false,
			InsideOffice: false,
			Status:       attendance.StatusNotPunchedIn,
		}, nil
	}

	if day.PunchOut != nil {
		return attendance.PresenceStatusResponse{
			PunchedIn:       false,
			InsideOffice:    false,
			Status:          attendance.StatusPunchedOut,
			PunchOutTime:    day.PunchOut,
			LastHeartbeat:   day.LastHeartbeat,
			OutCount:        day.OutCount,
			TotalOutMinutes: day.TotalOutMinutes,
		}, nil
	}

	open, err := a.outRepo.GetOpen(ctx, day.ID)
	if err != nil {
		return attendance.PresenceStatusResponse{}, fmt.Errorf("failed to check open out period: %w", err)
	}

	status := attendance.StatusInsideOffice
	if open != nil {
		status = attendance.StatusOutsideOffice
	}

	return attendance.PresenceStatusResponse{
		PunchedIn:       true,
		InsideOffice:    open == nil,
		Status:          status,
		LastHeartbeat:   day.LastHeartbeat,
		OutCount:        day.OutCount,
		TotalOutMinutes: day.TotalOutMinutes,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	days, err := a.dayRepo.ListByEmployee(ctx, filter.EmployeeID, filter.Month, filter.Year)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceDayResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, mapDayToResponse(d))
	}

	return attendance.ListAttendanceResponse{Attendances: responses}, nil
}
