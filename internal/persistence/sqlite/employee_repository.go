package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

// CreateEmployee stores a new employee record.
func (s *Store) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		employee.ID, employee.Name, formatTime(employee.CreatedAt), formatTime(employee.UpdatedAt))
	return mapError(err)
}

// GetEmployee retrieves an employee by id.
func (s *Store) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by creation time, then id.
func (s *Store) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM employees ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	employees := make([]persistence.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return employees, nil
}

// ListEmployeesByIDs returns the employees matching the given ids. Missing ids
// produce no row; callers compare lengths or index the result by id.
func (s *Store) ListEmployeesByIDs(ctx context.Context, ids []string) ([]persistence.Employee, error) {
	if len(ids) == 0 {
		return []persistence.Employee{}, nil
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(unique)), ",")
	args := make([]any, 0, len(unique))
	for _, id := range unique {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM employees WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	employees := make([]persistence.Employee, 0, len(unique))
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return employees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var createdAt, updatedAt string

	if err := row.Scan(&employee.ID, &employee.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, mapError(err)
	}

	var err error
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, err
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, err
	}

	return employee, nil
}
