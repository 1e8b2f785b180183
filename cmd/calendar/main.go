package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/goutamiuppu/calendar-assistant/internal/application"
	"github.com/goutamiuppu/calendar-assistant/internal/config"
	httptransport "github.com/goutamiuppu/calendar-assistant/internal/http"
	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
	"github.com/goutamiuppu/calendar-assistant/internal/persistence/sqlite"
)

func main() {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	employeeRepo := newEmployeeRepositoryAdapter(store)
	meetingRepo := newMeetingRepositoryAdapter(store)

	employeeService := application.NewEmployeeServiceWithLogger(employeeRepo, idGenerator, now, logger)
	calendarService := application.NewCalendarServiceWithLogger(meetingRepo, employeeService, application.SlotSearchOptions{
		BusinessStartHour: cfg.BusinessStartHour,
		BusinessEndHour:   cfg.BusinessEndHour,
		Step:              cfg.SlotStep,
		HorizonDays:       cfg.SearchHorizonDays,
	}, idGenerator, now, logger)

	calendarHandler := httptransport.NewCalendarHandler(calendarService, employeeService, logger)
	employeeHandler := httptransport.NewEmployeeHandler(employeeService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Calendar:  calendarHandler,
		Employees: employeeHandler,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("calendar API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// --- repository adapters ---

type employeeRepositoryAdapter struct {
	store *sqlite.Store
}

func newEmployeeRepositoryAdapter(store *sqlite.Store) *employeeRepositoryAdapter {
	return &employeeRepositoryAdapter{store: store}
}

func (a *employeeRepositoryAdapter) CreateEmployee(ctx context.Context, employee application.Employee) (application.Employee, error) {
	if err := a.store.CreateEmployee(ctx, toPersistenceEmployee(employee)); err != nil {
		return application.Employee{}, err
	}
	return employee, nil
}

func (a *employeeRepositoryAdapter) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	record, err := a.store.GetEmployee(ctx, id)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(record), nil
}

func (a *employeeRepositoryAdapter) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	records, err := a.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationEmployees(records), nil
}

func (a *employeeRepositoryAdapter) ListEmployeesByIDs(ctx context.Context, ids []string) ([]application.Employee, error) {
	records, err := a.store.ListEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toApplicationEmployees(records), nil
}

type meetingRepositoryAdapter struct {
	store *sqlite.Store
}

func newMeetingRepositoryAdapter(store *sqlite.Store) *meetingRepositoryAdapter {
	return &meetingRepositoryAdapter{store: store}
}

func (a *meetingRepositoryAdapter) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	if err := a.store.CreateMeeting(ctx, toPersistenceMeeting(meeting)); err != nil {
		return application.Meeting{}, err
	}
	return meeting, nil
}

func (a *meetingRepositoryAdapter) FindOverlapping(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]application.Meeting, error) {
	records, err := a.store.FindOverlapping(ctx, employeeID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	meetings := make([]application.Meeting, 0, len(records))
	for _, record := range records {
		meetings = append(meetings, toApplicationMeeting(record))
	}
	return meetings, nil
}

// --- model conversions ---

func toPersistenceEmployee(employee application.Employee) persistence.Employee {
	return persistence.Employee{
		ID:        employee.ID,
		Name:      employee.Name,
		CreatedAt: employee.CreatedAt,
		UpdatedAt: employee.UpdatedAt,
	}
}

func toApplicationEmployee(record persistence.Employee) application.Employee {
	return application.Employee{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toApplicationEmployees(records []persistence.Employee) []application.Employee {
	employees := make([]application.Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, toApplicationEmployee(record))
	}
	return employees
}

func toPersistenceMeeting(meeting application.Meeting) persistence.Meeting {
	return persistence.Meeting{
		ID:             meeting.ID,
		Title:          meeting.Title,
		Start:          meeting.Start,
		End:            meeting.End,
		OwnerID:        meeting.OwnerID,
		ParticipantIDs: append([]string(nil), meeting.ParticipantIDs...),
		CreatedAt:      meeting.CreatedAt,
		UpdatedAt:      meeting.UpdatedAt,
	}
}

func toApplicationMeeting(record persistence.Meeting) application.Meeting {
	return application.Meeting{
		ID:             record.ID,
		Title:          record.Title,
		Start:          record.Start,
		End:            record.End,
		OwnerID:        record.OwnerID,
		ParticipantIDs: append([]string(nil), record.ParticipantIDs...),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
