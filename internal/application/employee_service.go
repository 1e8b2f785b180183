package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

// EmployeeRepository captures the persistence operations needed by the
// employee service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) (Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error)
}

// EmployeeService is the in-process employee directory: it creates and
// resolves the records that meetings reference by id.
type EmployeeService struct {
	employees   EmployeeRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for directory operations.
func NewEmployeeService(employees EmployeeRepository, idGenerator func() string, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, idGenerator, now, nil)
}

// NewEmployeeServiceWithLogger constructs an employee service with a specified logger.
func NewEmployeeServiceWithLogger(employees EmployeeRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee validates input and persists a new directory record.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (employee Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("employee_id", employee.ID).InfoContext(ctx, "employee created")
	}()

	if strings.TrimSpace(input.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	createdAt := s.now()
	employee = Employee{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if s.employees == nil {
		return
	}

	persisted, err := s.employees.CreateEmployee(ctx, employee)
	if err != nil {
		err = mapEmployeeRepoError(err)
		employee = Employee{}
		return
	}

	employee = persisted
	return
}

// GetEmployee resolves a single directory record by id.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}

	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, mapEmployeeRepoError(err)
	}
	return employee, nil
}

// ListEmployees returns all directory records ordered by creation time.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, mapEmployeeRepoError(err)
	}
	return employees, nil
}

// ResolveEmployees maps each requested id to its directory record, preserving
// request order and duplicates. When any id is unknown the whole resolution
// fails with a validation error, mirroring the request boundary's
// participant-validation contract.
func (s *EmployeeService) ResolveEmployees(ctx context.Context, ids []string) ([]Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.employees.ListEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, mapEmployeeRepoError(err)
	}

	byID := make(map[string]Employee, len(found))
	for _, employee := range found {
		byID[employee.ID] = employee
	}

	resolved := make([]Employee, 0, len(ids))
	for _, id := range ids {
		employee, ok := byID[id]
		if !ok {
			vErr := &ValidationError{}
			vErr.add("participant_ids", "one or more participants not found")
			return nil, vErr
		}
		resolved = append(resolved, employee)
	}

	return resolved, nil
}

func mapEmployeeRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
