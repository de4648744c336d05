package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/attendance"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	officeLat = 17.489313654492967
	officeLon = 78.39285505628658
	officeIP  = "103.206.104.149"
	otherIP   = "49.205.12.7"
)

// outsideLat is roughly 1.1 km north of the office, well past the 50 m radius.
const outsideLat = officeLat + 0.01

type testEnv struct {
	svc      *AttendanceServiceImpl
	days     *fakeDayRepo
	events   *fakeEventRepo
	periods  *fakePeriodRepo
	leaves   *fakeLeaveRepo
	provider *fakeSettingsProvider
	current  time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		days:    newFakeDayRepo(),
		events:  newFakeEventRepo(),
		periods: newFakePeriodRepo(),
		leaves:  newFakeLeaveRepo(),
		provider: &fakeSettingsProvider{settings: settings.OfficeSettings{
			Latitude:       officeLat,
			Longitude:      officeLon,
			RadiusMeters:   50,
			OfficePublicIP: officeIP,
		}},
		current: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	env.svc = &AttendanceServiceImpl{
		txm:       fakeTxManager{},
		dayRepo:   env.days,
		punchRepo: env.events,
		outRepo:   env.periods,
		leaveRepo: env.leaves,
		settings:  env.provider,
		rules:     Rules{MaxPunchesPerDay: 4, HalfDayMinutes: 240, FullDayMinutes: 480},
		now:       func() time.Time { return env.current },
	}
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.current = e.current.Add(d)
}

func insideReq(employeeID string) attendance.PunchRequest {
	return attendance.PunchRequest{
		EmployeeID: employeeID,
		Latitude:   officeLat,
		Longitude:  officeLon,
		IPAddress:  officeIP,
	}
}

func insideHeartbeat(employeeID string) attendance.HeartbeatRequest {
	return attendance.HeartbeatRequest{
		EmployeeID: employeeID,
		Latitude:   officeLat,
		Longitude:  officeLon,
		IPAddress:  officeIP,
	}
}

func TestPunchIn_FirstOfDay(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.PunchIn(context.Background(), insideReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.PunchInCount)
	assert.Equal(t, 0, resp.PunchOutCount)
	assert.True(t, resp.Attendance.IsCurrentlyIn)
	assert.Equal(t, attendance.StatusInsideOffice, resp.Attendance.Status)
	require.NotNil(t, resp.Attendance.PunchIn)
	assert.Equal(t, env.current, *resp.Attendance.PunchIn)

	active, err := env.events.GetActive(context.Background(), resp.Attendance.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
}

func TestPunchIn_WhileActiveSessionOpen(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.PunchIn(context.Background(), insideReq("emp-1"))
	require.NoError(t, err)

	_, err = env.svc.PunchIn(context.Background(), insideReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestPunchIn_DailyLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
		require.NoError(t, err)
		env.advance(10 * time.Minute)
		_, err = env.svc.PunchOut(ctx, insideReq("emp-1"))
		require.NoError(t, err)
		env.advance(10 * time.Minute)
	}

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrMaxPunchesReached)
}

func TestPunchIn_OnApprovedLeave(t *testing.T) {
	env := newTestEnv()
	env.leaves.approved["emp-1|2025-03-10"] = true

	_, err := env.svc.PunchIn(context.Background(), insideReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrOnApprovedLeave)
}

func TestPunchIn_OutsideRadius(t *testing.T) {
	env := newTestEnv()

	req := insideReq("emp-1")
	req.Latitude = outsideLat
	_, err := env.svc.PunchIn(context.Background(), req)

	var outside *attendance.OutsideRadiusError
	require.ErrorAs(t, err, &outside)
	assert.Greater(t, outside.DistanceMeters, 50.0)
	assert.Equal(t, 50, outside.RadiusMeters)
}

func TestPunchIn_WrongNetwork(t *testing.T) {
	env := newTestEnv()

	req := insideReq("emp-1")
	req.IPAddress = otherIP
	_, err := env.svc.PunchIn(context.Background(), req)

	var wrongNet *attendance.WrongNetworkError
	require.ErrorAs(t, err, &wrongNet)
	assert.Equal(t, otherIP, wrongNet.ObservedIP)
	assert.Equal(t, officeIP, wrongNet.OfficeIP)
}

func TestPunchOut_FullDay(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	env.advance(500 * time.Minute)
	resp, err := env.svc.PunchOut(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, 500, resp.NetWorkingMinutes)
	assert.InDelta(t, 8.33, resp.NetWorkingHours, 0.001)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.False(t, resp.Attendance.IsCurrentlyIn)

	active, err := env.events.GetActive(ctx, resp.Attendance.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestPunchOut_StatusThresholds(t *testing.T) {
	tests := []struct {
		name       string
		netMinutes int
		want       string
	}{
		{"just under half day", 239, attendance.StatusAbsent},
		{"exactly half day", 240, attendance.StatusHalfDay},
		{"just under full day", 479, attendance.StatusHalfDay},
		{"exactly full day", 480, attendance.StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			ctx := context.Background()

			_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
			require.NoError(t, err)

			env.advance(time.Duration(tt.netMinutes) * time.Minute)
			resp, err := env.svc.PunchOut(ctx, insideReq("emp-1"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestPunchOut_FoldsOpenExcursion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	// Leave the perimeter one hour in, never come back, punch out remotely
	// is rejected, so the employee returns and punches out on site.
	env.advance(60 * time.Minute)
	hb := insideHeartbeat("emp-1")
	hb.Latitude = outsideLat
	_, err = env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)

	env.advance(30 * time.Minute)
	resp, err := env.svc.PunchOut(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, 30, resp.TotalOutMinutes)
	assert.Equal(t, 90, resp.TotalTimeMinutes)
	assert.Equal(t, 60, resp.NetWorkingMinutes)
	require.Len(t, resp.OutSessions, 1)
	assert.Equal(t, attendance.ReasonManual, resp.OutSessions[0].Reason)
	assert.False(t, resp.OutSessions[0].IsActive)
}

func TestPunchOut_WithoutPunchIn(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.PunchOut(context.Background(), insideReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrNoAttendanceToday)
}

func TestPunchOut_Twice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)
	env.advance(10 * time.Minute)
	_, err = env.svc.PunchOut(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	_, err = env.svc.PunchOut(ctx, insideReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

func TestHeartbeat_ExitAndReturnCycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	// T+2m: good GPS, phone hopped off the office Wi-Fi.
	env.advance(2 * time.Minute)
	hb := insideHeartbeat("emp-1")
	hb.IPAddress = otherIP
	resp, err := env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)
	assert.True(t, resp.PunchedIn)
	require.NotNil(t, resp.InsideOffice)
	assert.False(t, *resp.InsideOffice)
	assert.Equal(t, attendance.StatusOutOfOffice, resp.Status)
	require.NotNil(t, resp.OutTime)

	// T+10m: back on office Wi-Fi; excursion closes at 8 minutes and keeps
	// its opening reason.
	env.advance(8 * time.Minute)
	resp, err = env.svc.Heartbeat(ctx, insideHeartbeat("emp-1"))
	require.NoError(t, err)
	require.NotNil(t, resp.InsideOffice)
	assert.True(t, *resp.InsideOffice)
	require.NotNil(t, resp.OutDurationMinutes)
	assert.Equal(t, 8, *resp.OutDurationMinutes)

	day, err := env.days.GetByEmployeeAndDate(ctx, "emp-1", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 8, day.TotalOutMinutes)
	assert.Equal(t, 1, day.OutCount)

	periods, err := env.periods.ListByAttendance(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, attendance.ReasonIPChange, periods[0].Reason)
	assert.False(t, periods[0].IsOpen())
}

func TestHeartbeat_RepeatedOutsideKeepsOnePeriod(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	hb := insideHeartbeat("emp-1")
	hb.Latitude = outsideLat

	env.advance(2 * time.Minute)
	_, err = env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)

	env.advance(2 * time.Minute)
	resp, err := env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOutOfOffice, resp.Status)

	day, err := env.days.GetByEmployeeAndDate(ctx, "emp-1", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, day.OutCount)

	periods, err := env.periods.ListByAttendance(ctx, day.ID)
	require.NoError(t, err)
	assert.Len(t, periods, 1)
}

func TestHeartbeat_WithoutSession(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.Heartbeat(context.Background(), insideHeartbeat("emp-1"))
	require.NoError(t, err)
	assert.False(t, resp.PunchedIn)

	day, err := env.days.GetByEmployeeAndDate(context.Background(), "emp-1", "2025-03-10")
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestHeartbeat_AfterPunchOut(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)
	env.advance(10 * time.Minute)
	_, err = env.svc.PunchOut(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	resp, err := env.svc.Heartbeat(ctx, insideHeartbeat("emp-1"))
	require.NoError(t, err)
	assert.False(t, resp.PunchedIn)
}

func TestHeartbeat_MalformedPayloadCountsAsExit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	env.advance(2 * time.Minute)
	resp, err := env.svc.Heartbeat(ctx, attendance.HeartbeatRequest{
		EmployeeID: "emp-1",
		Latitude:   999, // garbage GPS
		Longitude:  officeLon,
		IPAddress:  officeIP,
	})
	require.NoError(t, err)
	assert.True(t, resp.PunchedIn)
	require.NotNil(t, resp.InsideOffice)
	assert.False(t, *resp.InsideOffice)

	day, err := env.days.GetByEmployeeAndDate(ctx, "emp-1", "2025-03-10")
	require.NoError(t, err)
	periods, err := env.periods.ListByAttendance(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, attendance.ReasonGeoFenceExit, periods[0].Reason)
}

func TestHeartbeat_SettingsFailureCountsAsExit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	env.advance(2 * time.Minute)
	env.provider.err = assert.AnError
	resp, err := env.svc.Heartbeat(ctx, insideHeartbeat("emp-1"))
	require.NoError(t, err)
	require.NotNil(t, resp.InsideOffice)
	assert.False(t, *resp.InsideOffice)
}

func TestGetTodayStatus_CountsOpenExcursionToNow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	env.advance(60 * time.Minute)
	hb := insideHeartbeat("emp-1")
	hb.Latitude = outsideLat
	_, err = env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)

	env.advance(15 * time.Minute)
	resp, err := env.svc.GetTodayStatus(ctx, "emp-1")
	require.NoError(t, err)

	assert.True(t, resp.PunchedIn)
	require.NotNil(t, resp.InsideOffice)
	assert.False(t, *resp.InsideOffice)
	assert.Equal(t, 15, resp.TotalOutMinutes)
	assert.Equal(t, 75, resp.TotalTimeMinutes)
	assert.Equal(t, 60, resp.NetWorkingMinutes)
	assert.Equal(t, attendance.StatusOutOfOffice, resp.Status)
}

func TestGetTodayStatus_NotPunchedIn(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetTodayStatus(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, resp.PunchedIn)
	assert.Equal(t, attendance.StatusNotPunchedIn, resp.Status)
	assert.Empty(t, resp.OutSessions)
}

func TestGetPresenceStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.GetPresenceStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNotPunchedIn, resp.Status)

	_, err = env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)
	resp, err = env.svc.GetPresenceStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, resp.PunchedIn)
	assert.True(t, resp.InsideOffice)
	assert.Equal(t, attendance.StatusInsideOffice, resp.Status)

	env.advance(5 * time.Minute)
	hb := insideHeartbeat("emp-1")
	hb.Latitude = outsideLat
	_, err = env.svc.Heartbeat(ctx, hb)
	require.NoError(t, err)
	resp, err = env.svc.GetPresenceStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, resp.InsideOffice)
	assert.Equal(t, attendance.StatusOutsideOffice, resp.Status)

	env.advance(5 * time.Minute)
	_, err = env.svc.Heartbeat(ctx, insideHeartbeat("emp-1"))
	require.NoError(t, err)
	env.advance(5 * time.Minute)
	_, err = env.svc.PunchOut(ctx, insideReq("emp-1"))
	require.NoError(t, err)
	resp, err = env.svc.GetPresenceStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, resp.PunchedIn)
	assert.Equal(t, attendance.StatusPunchedOut, resp.Status)
}

func TestGetMyAttendance_FiltersByMonth(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.PunchIn(ctx, insideReq("emp-1"))
	require.NoError(t, err)

	resp, err := env.svc.GetMyAttendance(ctx, attendance.MyAttendanceFilter{
		EmployeeID: "emp-1", Month: 3, Year: 2025,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Attendances, 1)

	resp, err = env.svc.GetMyAttendance(ctx, attendance.MyAttendanceFilter{
		EmployeeID: "emp-1", Month: 2, Year: 2025,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Attendances)
}

func TestValidateLocation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	resp, err := env.svc.ValidateLocation(ctx, insideReq("emp-1"))
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Nil(t, resp.LocationError)
	assert.Nil(t, resp.WifiError)

	req := insideReq("emp-1")
	req.Latitude = outsideLat
	req.IPAddress = otherIP
	resp, err = env.svc.ValidateLocation(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.False(t, resp.LocationValid)
	assert.False(t, resp.WifiValid)
	require.NotNil(t, resp.LocationError)
	require.NotNil(t, resp.WifiError)
	assert.Equal(t, officeIP, resp.OfficeLocation.IP)
}
