package main

import (
	"fmt"
	"net/http"

	"github.com/collabra-tech/attendance-backend-go/internal/config"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	appHTTP "github.com/collabra-tech/attendance-backend-go/internal/handler/http"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/cron"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/jwt"
	"github.com/collabra-tech/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/collabra-tech/attendance-backend-go/internal/service/attendance"
	authService "github.com/collabra-tech/attendance-backend-go/internal/service/auth"
	settingsService "github.com/collabra-tech/attendance-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	txManager := postgresql.NewTxManager(db)
	dayRepo := postgresql.NewAttendanceDayRepository(db)
	punchRepo := postgresql.NewPunchEventRepository(db)
	outRepo := postgresql.NewOutPeriodRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	settingsRepo := postgresql.NewOfficeSettingsRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	settingsSvc := settingsService.NewSettingsService(settingsRepo, settings.OfficeSettings{
		Latitude:       cfg.Office.Latitude,
		Longitude:      cfg.Office.Longitude,
		RadiusMeters:   cfg.Office.RadiusMeters,
		OfficePublicIP: cfg.Office.PublicIP,
	})
	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		dayRepo,
		punchRepo,
		outRepo,
		leaveRepo,
		settingsSvc,
		attendanceService.Rules{
			MaxPunchesPerDay: cfg.Attendance.MaxPunchesPerDay,
			HalfDayMinutes:   cfg.Attendance.HalfDayMinutes,
			FullDayMinutes:   cfg.Attendance.FullDayMinutes,
		},
	)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		txManager,
		dayRepo,
		punchRepo,
		outRepo,
		cfg.Attendance.HeartbeatStaleAfter,
	)
	attendanceJobs.RegisterJobs(scheduler, cfg.Attendance.SweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
		authHandler,
		attendanceHandler,
		settingsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
