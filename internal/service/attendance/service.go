package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/leave"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/geofence"
)

// Rules are the punch/session policy knobs, loaded from configuration.
type Rules struct {
	MaxPunchesPerDay int
	HalfDayMinutes   int
	FullDayMinutes   int
}

type AttendanceServiceImpl struct {
	txm       database.TxManager
	dayRepo   attendance.AttendanceDayRepository
	punchRepo attendance.PunchEventRepository
	outRepo   attendance.OutPeriodRepository
	leaveRepo leave.LeaveRequestRepository
	settings  settings.Provider
	rules     Rules
	now       func() time.Time
}

func NewAttendanceService(
	txm database.TxManager,
	dayRepo attendance.AttendanceDayRepository,
	punchRepo attendance.PunchEventRepository,
	outRepo attendance.OutPeriodRepository,
	leaveRepo leave.LeaveRequestRepository,
	settingsProvider settings.Provider,
	rules Rules,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txm:       txm,
		dayRepo:   dayRepo,
		punchRepo: punchRepo,
		outRepo:   outRepo,
		leaveRepo: leaveRepo,
		settings:  settingsProvider,
		rules:     rules,
		now:       time.Now,
	}
}

// minutesBetween returns whole elapsed minutes, floored.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}

func (a *AttendanceServiceImpl) office(ctx context.Context) (settings.OfficeSettings, geofence.Office, error) {
	s, err := a.settings.Get(ctx)
	if err != nil {
		return settings.OfficeSettings{}, geofence.Office{}, fmt.Errorf("failed to load office settings: %w", err)
	}
	return s, geofence.Office{
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		RadiusMeters: s.RadiusMeters,
		PublicIP:     s.OfficePublicIP,
	}, nil
}

// checkPerimeter runs the geofence verdict and converts a negative verdict
// into the distinguished rejection error. Location failures win over Wi-Fi
// failures when both sub-checks are negative.
func (a *AttendanceServiceImpl) checkPerimeter(ctx context.Context, lat, lon float64, ip string) (geofence.Result, settings.OfficeSettings, error) {
	s, office, err := a.office(ctx)
	if err != nil {
		return geofence.Result{}, settings.OfficeSettings{}, err
	}

	result, err := geofence.Validate(lat, lon, ip, office)
	if err != nil {
		return geofence.Result{}, s, err
	}

	if !result.LocationValid {
		return result, s, &attendance.OutsideRadiusError{
			DistanceMeters: result.DistanceMeters,
			RadiusMeters:   s.RadiusMeters,
		}
	}
	if !result.WifiValid {
		return result, s, &attendance.WrongNetworkError{
			ObservedIP: ip,
			OfficeIP:   s.OfficePublicIP,
		}
	}

	return result, s, nil
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (attendance.PunchInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchInResponse{}, err
	}

	now := a.now().UTC()
	today := now.Format("2006-01-02")

	onLeave, err := a.leaveRepo.HasApprovedLeave(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.PunchInResponse{}, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave {
		return attendance.PunchInResponse{}, attendance.ErrOnApprovedLeave
	}

	result, _, err := a.checkPerimeter(ctx, req.Latitude, req.Longitude, req.IPAddress)
	if err != nil {
		return attendance.PunchInResponse{}, err
	}

	var resp attendance.PunchInResponse
	err = a.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.dayRepo.GetByEmployeeAndDateForUpdate(txCtx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load attendance day: %w", err)
		}

		if day == nil {
			created, err := a.dayRepo.Create(txCtx, attendance.AttendanceDay{
				EmployeeID: req.EmployeeID,
				Date:       today,
				Status:     attendance.StatusNotPunchedIn,
			})
			if err != nil {
				return fmt.Errorf("failed to create attendance day: %w", err)
			}
			day = &created
		} else {
			active, err := a.punchRepo.GetActive(txCtx, day.ID)
			if err != nil {
				return fmt.Errorf("failed to check active punch event: %w", err)
			}
			if active != nil {
				return attendance.ErrAlreadyPunchedIn
			}

			count, err := a.punchRepo.CountByAttendance(txCtx, day.ID)
			if err != nil {
				return fmt.Errorf("failed to count punch events: %w", err)
			}
			if count >= a.rules.MaxPunchesPerDay {
				return attendance.ErrMaxPunchesReached
			}
		}

		event, err := a.punchRepo.Create(txCtx, attendance.PunchEvent{
			AttendanceID:   day.ID,
			EmployeeID:     req.EmployeeID,
			Date:           today,
			PunchInTime:    now,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			DistanceMeters: result.DistanceMeters,
			IPAddress:      req.IPAddress,
			IsActive:       true,
		})
		if err != nil {
			return fmt.Errorf("failed to create punch event: %w", err)
		}

		// The day keeps the first punch-in of the day; later punches only
		// move the active session reference and reopen the day.
		if day.PunchIn == nil {
			day.PunchIn = &now
		}
		day.PunchOut = nil
		day.CurrentPunchInID = &event.ID
		day.IsCurrentlyIn = true
		day.PunchInCount++
		day.Latitude = &req.Latitude
		day.Longitude = &req.Longitude
		day.IPAddress = &req.IPAddress
		day.DistanceMeters = &result.DistanceMeters
		day.Status = attendance.StatusInsideOffice

		if err := a.dayRepo.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update attendance day: %w", err)
		}

		events, err := a.punchRepo.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list punch events: %w", err)
		}

		resp = attendance.PunchInResponse{
			Attendance:    mapDayToResponse(*day),
			PunchEvents:   mapEventsToResponse(events),
			PunchInCount:  len(events),
			PunchOutCount: countPunchedOut(events),
		}
		return nil
	})
	if err != nil {
		return attendance.PunchInResponse{}, err
	}

	return resp, nil
}

// PunchOut implements attendance.AttendanceService. Punch-out deliberately
// re-validates the perimeter the same way punch-in does.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (attendance.PunchOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchOutResponse{}, err
	}

	now := a.now().UTC()
	today := now.Format("2006-01-02")

	if _, _, err := a.checkPerimeter(ctx, req.Latitude, req.Longitude, req.IPAddress); err != nil {
		return attendance.PunchOutResponse{}, err
	}

	var resp attendance.PunchOutResponse
	err := a.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.dayRepo.GetByEmployeeAndDateForUpdate(txCtx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load attendance day: %w", err)
		}
		if day == nil {
			return attendance.ErrNoAttendanceToday
		}
		if day.PunchIn == nil {
			return attendance.ErrNotPunchedIn
		}

		active, err := a.punchRepo.GetActive(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check active punch event: %w", err)
		}
		if active == nil {
			if day.PunchOut != nil {
				return attendance.ErrAlreadyPunchedOut
			}
			return attendance.ErrNotPunchedIn
		}

		open, err := a.outRepo.GetOpen(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to check open out period: %w", err)
		}
		if open != nil {
			duration := minutesBetween(open.OutTime, now)
			if err := a.outRepo.Close(txCtx, open.ID, now, duration, attendance.ReasonManual); err != nil {
				return fmt.Errorf("failed to close open out period: %w", err)
			}
		}

		// Recompute from the closed periods rather than trusting the running
		// total, so a partially failed earlier write cannot skew the day.
		totalOut, err := a.outRepo.SumClosedMinutes(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to sum out periods: %w", err)
		}

		totalMinutes := minutesBetween(*day.PunchIn, now)
		netWorkingMinutes := totalMinutes - totalOut
		if netWorkingMinutes < 0 {
			netWorkingMinutes = 0
		}
		status := attendance.StatusForNetMinutes(netWorkingMinutes, a.rules.HalfDayMinutes, a.rules.FullDayMinutes)

		if err := a.punchRepo.Deactivate(txCtx, active.ID, now); err != nil {
			return fmt.Errorf("failed to deactivate punch event: %w", err)
		}

		day.PunchOut = &now
		day.IsCurrentlyIn = false
		day.CurrentPunchInID = nil
		day.TotalOutMinutes = totalOut
		day.Latitude = &req.Latitude
		day.Longitude = &req.Longitude
		day.IPAddress = &req.IPAddress
		day.Status = status

		if err := a.dayRepo.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update attendance day: %w", err)
		}

		periods, err := a.outRepo.ListByAttendance(txCtx, day.ID)
		if err != nil {
			return fmt.Errorf("failed to list out periods: %w", err)
		}

		resp = attendance.PunchOutResponse{
			Attendance:        mapDayToResponse(*day),
			OutCount:          day.OutCount,
			TotalOutMinutes:   totalOut,
			TotalOutHours:     attendance.MinutesToHours(totalOut),
			NetWorkingMinutes: netWorkingMinutes,
			NetWorkingHours:   attendance.MinutesToHours(netWorkingMinutes),
			TotalTimeMinutes:  totalMinutes,
			TotalTimeHours:    attendance.MinutesToHours(totalMinutes),
			OutSessions:       mapPeriodsToResponse(periods),
			Status:            status,
		}
		return nil
	})
	if err != nil {
		return attendance.PunchOutResponse{}, err
	}

	return resp, nil
}

// ValidateLocation implements attendance.AttendanceService. Dry run of the
// geofence verdict plus a settings echo; no mutation.
func (a *AttendanceServiceImpl) ValidateLocation(ctx context.Context, req attendance.PunchRequest) (attendance.ValidateLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	s, office, err := a.office(ctx)
	if err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	result, err := geofence.Validate(req.Latitude, req.Longitude, req.IPAddress, office)
	if err != nil {
		return attendance.ValidateLocationResponse{}, err
	}

	var locationError, wifiError *string
	if !result.LocationValid {
		msg := (&attendance.OutsideRadiusError{DistanceMeters: result.DistanceMeters, RadiusMeters: s.RadiusMeters}).Error()
		locationError = &msg
	}
	if !result.WifiValid {
		msg := (&attendance.WrongNetworkError{ObservedIP: req.IPAddress, OfficeIP: s.OfficePublicIP}).Error()
		wifiError = &msg
	}

	message := fmt.Sprintf("location and Wi-Fi validated successfully, distance: %.2f meters from office", result.DistanceMeters)
	if locationError != nil {
		message = *locationError
	} else if wifiError != nil {
		message = *wifiError
	}

	distance := result.DistanceMeters
	return attendance.ValidateLocationResponse{
		Valid:          result.Valid,
		LocationValid:  result.LocationValid,
		WifiValid:      result.WifiValid,
		DistanceMeters: &distance,
		Message:        message,
		LocationError:  locationError,
		WifiError:      wifiError,
		OfficeLocation: attendance.OfficeLocationInfo{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Radius:    s.RadiusMeters,
			IP:        s.OfficePublicIP,
		},
		EmployeeLocation: attendance.EmployeeLocationInfo{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			IP:        req.IPAddress,
		},
	}, nil
}

func mapDayToResponse(day attendance.AttendanceDay) attendance.AttendanceDayResponse {
	return attendance.AttendanceDayResponse{
		ID:              day.ID,
		EmployeeID:      day.EmployeeID,
		Date:            day.Date,
		PunchIn:         day.PunchIn,
		PunchOut:        day.PunchOut,
		IsCurrentlyIn:   day.IsCurrentlyIn,
		PunchInCount:    day.PunchInCount,
		OutCount:        day.OutCount,
		TotalOutMinutes: day.TotalOutMinutes,
		LastHeartbeat:   day.LastHeartbeat,
		Latitude:        day.Latitude,
		Longitude:       day.Longitude,
		IPAddress:       day.IPAddress,
		DistanceMeters:  day.DistanceMeters,
		Status:          day.Status,
		IsAutoPunched:   day.IsAutoPunchedOut,
	}
}

func mapEventsToResponse(events []attendance.PunchEvent) []attendance.PunchEventResponse {
	responses := make([]attendance.PunchEventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, attendance.PunchEventResponse{
			PunchInID:    ev.ID,
			PunchInTime:  ev.PunchInTime,
			PunchOutTime: ev.PunchOutTime,
			IsActive:     ev.IsActive,
		})
	}
	return responses
}

func mapPeriodsToResponse(periods []attendance.OutPeriod) []attendance.OutPeriodResponse {
	responses := make([]attendance.OutPeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, attendance.OutPeriodResponse{
			ID:              p.ID,
			OutTime:         p.OutTime,
			InTime:          p.InTime,
			DurationMinutes: p.DurationMinutes,
			Reason:          p.Reason,
			IsActive:        p.IsOpen(),
		})
	}
	return responses
}

func countPunchedOut(events []attendance.PunchEvent) int {
	n := 0
	for _, ev := range events {
		if ev.PunchOutTime != nil {
			n++
		}
	}
	return n
}
