// Package testfixtures provides deterministic builders for employees and
// meetings, plus a temporary SQLite harness for persistence tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/application"
	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

var (
	employeeCounter uint64
	meetingCounter  uint64
)

// referenceTime is a Monday morning inside business hours.
var referenceTime = time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// EmployeeFixture represents a deterministic employee record that can be
// materialised for application or persistence tests.
type EmployeeFixture struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic employee fixture with optional
// overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EmployeeFixture{
		ID:        fmt.Sprintf("employee-%03d", idx),
		Name:      fmt.Sprintf("Employee %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated employee ID.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.ID = id
	}
}

// WithEmployeeName overrides the generated name.
func WithEmployeeName(name string) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.Name = name
	}
}

// PersistenceEmployee converts the fixture into a persistence model.
func (f EmployeeFixture) PersistenceEmployee() persistence.Employee {
	return persistence.Employee{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ApplicationEmployee converts the fixture into an application model.
func (f EmployeeFixture) ApplicationEmployee() application.Employee {
	return application.Employee{ID: f.ID, Name: f.Name}
}

// MeetingFixture represents a deterministic meeting record.
type MeetingFixture struct {
	ID             string
	Title          string
	Start          time.Time
	End            time.Time
	OwnerID        string
	ParticipantIDs []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*MeetingFixture)

// NewMeetingFixture returns a deterministic meeting fixture. Successive
// fixtures occupy consecutive one-hour slots starting at ReferenceTime.
func NewMeetingFixture(opts ...MeetingOption) MeetingFixture {
	idx := atomic.AddUint64(&meetingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := MeetingFixture{
		ID:        fmt.Sprintf("meeting-%03d", idx),
		Title:     fmt.Sprintf("Meeting %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		OwnerID:   fmt.Sprintf("employee-%03d", idx),
		CreatedAt: start,
		UpdatedAt: start,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMeetingID overrides the generated meeting ID.
func WithMeetingID(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.ID = id
	}
}

// WithMeetingTitle overrides the generated title.
func WithMeetingTitle(title string) MeetingOption {
	return func(f *MeetingFixture) {
		f.Title = title
	}
}

// WithMeetingInterval overrides the meeting interval.
func WithMeetingInterval(start, end time.Time) MeetingOption {
	return func(f *MeetingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithMeetingOwner overrides the owner employee id.
func WithMeetingOwner(ownerID string) MeetingOption {
	return func(f *MeetingFixture) {
		f.OwnerID = ownerID
	}
}

// WithMeetingParticipants overrides the participant list.
func WithMeetingParticipants(ids ...string) MeetingOption {
	return func(f *MeetingFixture) {
		f.ParticipantIDs = ids
	}
}

// PersistenceMeeting converts the fixture into a persistence model.
func (f MeetingFixture) PersistenceMeeting() persistence.Meeting {
	participants := make([]string, len(f.ParticipantIDs))
	copy(participants, f.ParticipantIDs)
	return persistence.Meeting{
		ID:             f.ID,
		Title:          f.Title,
		Start:          f.Start,
		End:            f.End,
		OwnerID:        f.OwnerID,
		ParticipantIDs: participants,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// ApplicationMeeting converts the fixture into an application model.
func (f MeetingFixture) ApplicationMeeting() application.Meeting {
	participants := make([]string, len(f.ParticipantIDs))
	copy(participants, f.ParticipantIDs)
	return application.Meeting{
		ID:             f.ID,
		Title:          f.Title,
		Start:          f.Start,
		End:            f.End,
		OwnerID:        f.OwnerID,
		ParticipantIDs: participants,
	}
}
