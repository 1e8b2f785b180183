package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

type employeeRepoStub struct {
	created []Employee
	byID    map[string]Employee
	err     error
}

func (e *employeeRepoStub) CreateEmployee(ctx context.Context, employee Employee) (Employee, error) {
	if e.err != nil {
		return Employee{}, e.err
	}
	e.created = append(e.created, employee)
	return employee, nil
}

func (e *employeeRepoStub) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if e.err != nil {
		return Employee{}, e.err
	}
	employee, ok := e.byID[id]
	if !ok {
		return Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (e *employeeRepoStub) ListEmployees(ctx context.Context) ([]Employee, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([]Employee, 0, len(e.byID))
	for _, employee := range e.byID {
		out = append(out, employee)
	}
	return out, nil
}

func (e *employeeRepoStub) ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([]Employee, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if employee, ok := e.byID[id]; ok {
			out = append(out, employee)
		}
	}
	return out, nil
}

func newTestEmployeeService(repo *employeeRepoStub) *EmployeeService {
	return NewEmployeeService(repo, func() string { return "employee-1" }, func() time.Time {
		return time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	})
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	t.Parallel()

	repo := &employeeRepoStub{}
	svc := newTestEmployeeService(repo)

	employee, err := svc.CreateEmployee(context.Background(), EmployeeInput{Name: "  Asha  "})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if employee.ID != "employee-1" {
		t.Fatalf("expected generated id, got %q", employee.ID)
	}
	if employee.Name != "Asha" {
		t.Fatalf("expected trimmed name, got %q", employee.Name)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted employee, got %d", len(repo.created))
	}
}

func TestEmployeeService_CreateEmployee_RequiresName(t *testing.T) {
	t.Parallel()

	repo := &employeeRepoStub{}
	svc := newTestEmployeeService(repo)

	_, err := svc.CreateEmployee(context.Background(), EmployeeInput{Name: "   "})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["name"]; !ok {
		t.Fatalf("expected field error for name, got %v", vErr.FieldErrors)
	}
	if len(repo.created) != 0 {
		t.Fatal("employee persisted despite invalid input")
	}
}

func TestEmployeeService_GetEmployee_MapsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestEmployeeService(&employeeRepoStub{byID: map[string]Employee{}})

	_, err := svc.GetEmployee(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeService_ResolveEmployees_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	svc := newTestEmployeeService(&employeeRepoStub{byID: map[string]Employee{
		"e1": {ID: "e1", Name: "Asha"},
		"e2": {ID: "e2", Name: "Bruno"},
	}})

	resolved, err := svc.ResolveEmployees(context.Background(), []string{"e2", "e1", "e2"})
	if err != nil {
		t.Fatalf("ResolveEmployees returned error: %v", err)
	}

	got := make([]string, 0, len(resolved))
	for _, employee := range resolved {
		got = append(got, employee.ID)
	}
	if !reflect.DeepEqual(got, []string{"e2", "e1", "e2"}) {
		t.Fatalf("unexpected resolution order: %v", got)
	}
}

func TestEmployeeService_ResolveEmployees_FailsOnUnknownID(t *testing.T) {
	t.Parallel()

	svc := newTestEmployeeService(&employeeRepoStub{byID: map[string]Employee{
		"e1": {ID: "e1", Name: "Asha"},
	}})

	_, err := svc.ResolveEmployees(context.Background(), []string{"e1", "ghost"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["participant_ids"]; !ok {
		t.Fatalf("expected field error for participant_ids, got %v", vErr.FieldErrors)
	}
}

func TestEmployeeService_ResolveEmployees_EmptyInput(t *testing.T) {
	t.Parallel()

	svc := newTestEmployeeService(&employeeRepoStub{})

	resolved, err := svc.ResolveEmployees(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolveEmployees returned error: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected nil result for empty input, got %v", resolved)
	}
}
