package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes directory lookups and employee creation.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error)
}

// MeetingRepository stores meetings and answers overlap queries.
//
// FindOverlapping returns every meeting where the employee is owner or
// participant and the meeting interval intersects [windowStart, windowEnd)
// under half-open semantics. Result ordering is unspecified.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	FindOverlapping(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]Meeting, error)
}
