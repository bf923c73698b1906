package main

import (
	"fmt"
	"net/http"

	"github.com/tapvera/hr-backend-go/internal/config"
	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	appHTTP "github.com/tapvera/hr-backend-go/internal/handler/http"
	"github.com/tapvera/hr-backend-go/internal/pkg/database"
	"github.com/tapvera/hr-backend-go/internal/pkg/jwt"
	"github.com/tapvera/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tapvera/hr-backend-go/internal/service/attendance"
	shiftService "github.com/tapvera/hr-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	workCalendar := postgresql.NewWorkCalendar(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	shiftResolver := shiftService.NewShiftResolver(shiftRepo)

	thresholds := attendance.Thresholds{
		GraceSeconds:   int64(cfg.Attendance.GracePeriodMinutes) * 60,
		HalfDaySeconds: int64(cfg.Attendance.HalfDayHours * 3600),
		FullDaySeconds: int64(cfg.Attendance.FullDayHours * 3600),
	}

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		shiftResolver,
		workCalendar,
		thresholds,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
