package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
)

// In-memory doubles for the repository interfaces. The fake transaction
// manager just runs the function; the repos guard their maps with a mutex so
// concurrent tests stay race-free.

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeDayRepo struct {
	mu   sync.Mutex
	days map[string]*attendance.AttendanceDay // keyed by id
	seq  int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: make(map[string]*attendance.AttendanceDay)}
}

func (r *fakeDayRepo) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	day.ID = fmt.Sprintf("day-%d", r.seq)
	copied := day
	r.days[day.ID] = &copied
	return day, nil
}

func (r *fakeDayRepo) GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (*attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.days {
		if d.EmployeeID == employeeID && d.Date == date {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeDayRepo) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID, date string) (*attendance.AttendanceDay, error) {
	return r.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (r *fakeDayRepo) Update(ctx context.Context, day attendance.AttendanceDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.days[day.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	copied := day
	r.days[day.ID] = &copied
	return nil
}

func (r *fakeDayRepo) ListByEmployee(ctx context.Context, employeeID string, month, year int) ([]attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceDay
	for _, d := range r.days {
		if d.EmployeeID != employeeID {
			continue
		}
		if month != 0 && year != 0 {
			parsed, err := time.Parse("2006-01-02", d.Date)
			if err != nil || int(parsed.Month()) != month || parsed.Year() != year {
				continue
			}
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDayRepo) GetStaleHeartbeats(ctx context.Context, date string, cutoff time.Time) ([]attendance.AttendanceDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceDay
	for _, d := range r.days {
		if d.Date != date || d.PunchIn == nil || d.PunchOut != nil {
			continue
		}
		if d.LastHeartbeat == nil || d.LastHeartbeat.Before(cutoff) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDayRepo) get(id string) attendance.AttendanceDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.days[id]
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []attendance.PunchEvent
	seq    int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (r *fakeEventRepo) Create(ctx context.Context, event attendance.PunchEvent) (attendance.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	event.ID = fmt.Sprintf("event-%d", r.seq)
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeEventRepo) GetActive(ctx context.Context, attendanceID string) (*attendance.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].AttendanceID == attendanceID && r.events[i].IsActive {
			copied := r.events[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) CountByAttendance(ctx context.Context, attendanceID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ev := range r.events {
		if ev.AttendanceID == attendanceID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) Deactivate(ctx context.Context, id string, punchOutTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id {
			out := punchOutTime
			r.events[i].PunchOutTime = &out
			r.events[i].IsActive = false
			return nil
		}
	}
	return fmt.Errorf("punch event %s not found", id)
}

func (r *fakeEventRepo) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.PunchEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.PunchEvent
	for _, ev := range r.events {
		if ev.AttendanceID == attendanceID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakePeriodRepo struct {
	mu      sync.Mutex
	periods []attendance.OutPeriod
	seq     int
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{}
}

func (r *fakePeriodRepo) Open(ctx context.Context, period attendance.OutPeriod) (attendance.OutPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	period.ID = fmt.Sprintf("period-%d", r.seq)
	r.periods = append(r.periods, period)
	return period, nil
}

func (r *fakePeriodRepo) GetOpen(ctx context.Context, attendanceID string) (*attendance.OutPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.periods) - 1; i >= 0; i-- {
		if r.periods[i].AttendanceID == attendanceID && r.periods[i].InTime == nil {
			copied := r.periods[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePeriodRepo) Close(ctx context.Context, id string, inTime time.Time, durationMinutes int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.periods {
		if r.periods[i].ID == id && r.periods[i].InTime == nil {
			in := inTime
			dur := durationMinutes
			r.periods[i].InTime = &in
			r.periods[i].DurationMinutes = &dur
			r.periods[i].Reason = reason
			return nil
		}
	}
	return fmt.Errorf("out period %s not found or already closed", id)
}

func (r *fakePeriodRepo) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.OutPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.OutPeriod
	for _, p := range r.periods {
		if p.AttendanceID == attendanceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePeriodRepo) SumClosedMinutes(ctx context.Context, attendanceID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, p := range r.periods {
		if p.AttendanceID == attendanceID && p.InTime != nil && p.DurationMinutes != nil {
			total += *p.DurationMinutes
		}
	}
	return total, nil
}

type fakeLeaveRepo struct {
	approved map[string]bool // employeeID|date
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{approved: make(map[string]bool)}
}

func (r *fakeLeaveRepo) HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error) {
	return r.approved[employeeID+"|"+date], nil
}

type fakeSettingsProvider struct {
	settings settings.OfficeSettings
	err      error
}

func (p *fakeSettingsProvider) Get(ctx context.Context) (settings.OfficeSettings, error) {
	if p.err != nil {
		return settings.OfficeSettings{}, p.err
	}
	return p.settings, nil
}
