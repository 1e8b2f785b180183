package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

type meetingRepoStub struct {
	created     []Meeting
	createErr   error
	overlapping map[string][]Meeting
	overlapErr  error
	queried     []string
}

func (m *meetingRepoStub) CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, error) {
	if m.createErr != nil {
		return Meeting{}, m.createErr
	}
	m.created = append(m.created, meeting)
	return meeting, nil
}

func (m *meetingRepoStub) FindOverlapping(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]Meeting, error) {
	m.queried = append(m.queried, employeeID)
	if m.overlapErr != nil {
		return nil, m.overlapErr
	}
	return m.overlapping[employeeID], nil
}

type directoryStub struct {
	employees map[string]Employee
	err       error
	lookups   int
}

func (d *directoryStub) GetEmployee(ctx context.Context, id string) (Employee, error) {
	d.lookups++
	if d.err != nil {
		return Employee{}, d.err
	}
	if employee, ok := d.employees[id]; ok {
		return employee, nil
	}
	return Employee{}, ErrNotFound
}

func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	// Monday morning, mid business hours: the window still snaps back to 09:00.
	return func() time.Time {
		return time.Date(2026, 3, 9, 10, 37, 0, 0, time.UTC)
	}
}

func busyAt(t *testing.T, day, hour, minute, durationMinutes int) Meeting {
	t.Helper()
	start := time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
	return Meeting{
		ID:    "existing",
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

func newTestCalendarService(repo *meetingRepoStub, directory *directoryStub, now func() time.Time) *CalendarService {
	return NewCalendarService(repo, directory, SlotSearchOptions{}, func() string { return "meeting-1" }, now)
}

func twoEmployees() *directoryStub {
	return &directoryStub{employees: map[string]Employee{
		"e1": {ID: "e1", Name: "Asha"},
		"e2": {ID: "e2", Name: "Bruno"},
	}}
}

func TestFindFreeSlots_EmptyCalendarsYieldFullGrid(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	svc := newTestCalendarService(repo, twoEmployees(), fixedNow(t))

	slots, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "e2",
		Duration:    30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("FindFreeSlots returned error: %v", err)
	}

	// 8 calendar days in the window (today plus 7), 16 half-hour starts per
	// business day (09:00 through 16:30).
	if len(slots) != 128 {
		t.Fatalf("expected 128 slots, got %d", len(slots))
	}

	first := slots[0]
	wantFirst := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	if !first.Start.Equal(wantFirst) || !first.End.Equal(wantFirst.Add(30*time.Minute)) {
		t.Fatalf("unexpected first slot: %v - %v", first.Start, first.End)
	}

	last := slots[len(slots)-1]
	wantLast := time.Date(2026, 3, 16, 16, 30, 0, 0, time.UTC)
	if !last.Start.Equal(wantLast) {
		t.Fatalf("unexpected last slot start: %v", last.Start)
	}

	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Start.Before(slots[i].Start) {
			t.Fatalf("slots not in ascending order at index %d", i)
		}
	}
}

func TestFindFreeSlots_NonPositiveDurationFailsBeforeAnyQuery(t *testing.T) {
	t.Parallel()

	for _, duration := range []time.Duration{0, -30 * time.Minute} {
		repo := &meetingRepoStub{}
		directory := twoEmployees()
		svc := newTestCalendarService(repo, directory, fixedNow(t))

		_, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
			Employee1ID: "e1",
			Employee2ID: "e2",
			Duration:    duration,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("duration %v: expected ValidationError, got %v", duration, err)
		}
		if len(repo.queried) != 0 {
			t.Fatalf("duration %v: store queried %d times before validation", duration, len(repo.queried))
		}
		if directory.lookups != 0 {
			t.Fatalf("duration %v: directory consulted before validation", duration)
		}
	}
}

func TestFindFreeSlots_UnknownEmployeeNamesTheMissingOne(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	directory := &directoryStub{employees: map[string]Employee{"e1": {ID: "e1", Name: "Asha"}}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	_, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "ghost",
		Duration:    30 * time.Minute,
	})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if want := "employee 2 not found with id ghost"; err.Error() != want+": "+ErrNotFound.Error() {
		t.Fatalf("error should name the missing employee, got %q", err.Error())
	}
	if len(repo.queried) != 0 {
		t.Fatal("store queried despite missing employee")
	}
}

func TestFindFreeSlots_ExcludesBookedRanges(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{overlapping: map[string][]Meeting{
		"e1": {busyAt(t, 9, 9, 0, 60)},
	}}
	svc := newTestCalendarService(repo, twoEmployees(), fixedNow(t))

	slots, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "e2",
		Duration:    30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("FindFreeSlots returned error: %v", err)
	}

	if len(slots) != 126 {
		t.Fatalf("expected 126 slots with a one hour meeting booked, got %d", len(slots))
	}

	blocked := []time.Time{
		time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC),
	}
	for _, slot := range slots {
		for _, b := range blocked {
			if slot.Start.Equal(b) {
				t.Fatalf("slot at %v should have been excluded", b)
			}
		}
	}

	// The meeting ends at 10:00; the 10:00 slot only touches it and stays free.
	if !slots[0].Start.Equal(time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected first free slot at 10:00, got %v", slots[0].Start)
	}
}

func TestFindFreeSlots_StartHourFilterAllowsSpillPastClose(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	svc := newTestCalendarService(repo, twoEmployees(), fixedNow(t))

	slots, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "e2",
		Duration:    time.Hour,
	})
	if err != nil {
		t.Fatalf("FindFreeSlots returned error: %v", err)
	}

	var found bool
	for _, slot := range slots {
		if slot.Start.Equal(time.Date(2026, 3, 9, 16, 30, 0, 0, time.UTC)) {
			found = true
			if want := time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC); !slot.End.Equal(want) {
				t.Fatalf("expected slot end %v, got %v", want, slot.End)
			}
		}
	}
	if !found {
		t.Fatal("expected a 16:30 slot whose end crosses past business close")
	}
}

func TestFindFreeSlots_FetchesMeetingsOncePerEmployee(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	svc := newTestCalendarService(repo, twoEmployees(), fixedNow(t))

	if _, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "e2",
		Duration:    30 * time.Minute,
	}); err != nil {
		t.Fatalf("FindFreeSlots returned error: %v", err)
	}

	if !reflect.DeepEqual(repo.queried, []string{"e1", "e2"}) {
		t.Fatalf("expected exactly two store queries, got %v", repo.queried)
	}
}

func TestFindFreeSlots_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store unavailable")
	repo := &meetingRepoStub{overlapErr: storeErr}
	svc := newTestCalendarService(repo, twoEmployees(), fixedNow(t))

	_, err := svc.FindFreeSlots(context.Background(), FindFreeSlotsParams{
		Employee1ID: "e1",
		Employee2ID: "e2",
		Duration:    30 * time.Minute,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func proposedFor(owner Employee, participants ...Employee) ProposedMeeting {
	return ProposedMeeting{
		Title:        "Design sync",
		Start:        time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Owner:        owner,
		Participants: participants,
	}
}

func TestFindConflicts_OwnerBusyParticipantsFree(t *testing.T) {
	t.Parallel()

	owner := Employee{ID: "owner", Name: "Asha"}
	p1 := Employee{ID: "p1", Name: "Bruno"}
	p2 := Employee{ID: "p2", Name: "Chao"}

	repo := &meetingRepoStub{overlapping: map[string][]Meeting{
		"owner": {busyAt(t, 10, 14, 30, 30)},
	}}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	conflicting, err := svc.FindConflicts(context.Background(), proposedFor(owner, p1, p2))
	if err != nil {
		t.Fatalf("FindConflicts returned error: %v", err)
	}

	if len(conflicting) != 1 || conflicting[0].ID != "owner" {
		t.Fatalf("expected exactly the owner in conflict, got %v", conflicting)
	}
}

func TestFindConflicts_AllFreeReturnsEmpty(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	conflicting, err := svc.FindConflicts(context.Background(), proposedFor(
		Employee{ID: "owner"}, Employee{ID: "p1"},
	))
	if err != nil {
		t.Fatalf("FindConflicts returned error: %v", err)
	}
	if len(conflicting) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicting)
	}
}

func TestFindConflicts_OwnerFirstThenParticipantOrder(t *testing.T) {
	t.Parallel()

	owner := Employee{ID: "owner"}
	p1 := Employee{ID: "p1"}
	p2 := Employee{ID: "p2"}

	busy := []Meeting{busyAt(t, 10, 14, 0, 60)}
	repo := &meetingRepoStub{overlapping: map[string][]Meeting{
		"owner": busy,
		"p1":    busy,
		"p2":    busy,
	}}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	conflicting, err := svc.FindConflicts(context.Background(), proposedFor(owner, p1, p2))
	if err != nil {
		t.Fatalf("FindConflicts returned error: %v", err)
	}

	got := make([]string, 0, len(conflicting))
	for _, employee := range conflicting {
		got = append(got, employee.ID)
	}
	if !reflect.DeepEqual(got, []string{"owner", "p1", "p2"}) {
		t.Fatalf("unexpected conflict order: %v", got)
	}
}

func TestFindConflicts_OwnerDoublingAsParticipantAppearsTwice(t *testing.T) {
	t.Parallel()

	owner := Employee{ID: "owner"}
	busy := []Meeting{busyAt(t, 10, 14, 0, 60)}
	repo := &meetingRepoStub{overlapping: map[string][]Meeting{"owner": busy}}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	conflicting, err := svc.FindConflicts(context.Background(), proposedFor(owner, owner))
	if err != nil {
		t.Fatalf("FindConflicts returned error: %v", err)
	}
	if len(conflicting) != 2 {
		t.Fatalf("owner doubling as participant should appear twice, got %v", conflicting)
	}
}

func TestFindConflicts_MissingOwnerIsInvalid(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	_, err := svc.FindConflicts(context.Background(), ProposedMeeting{
		Start: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for missing owner, got %v", err)
	}
	if len(repo.queried) != 0 {
		t.Fatal("store queried despite the missing owner")
	}
}

func TestFindConflicts_IsIdempotent(t *testing.T) {
	t.Parallel()

	owner := Employee{ID: "owner", Name: "Asha"}
	p1 := Employee{ID: "p1", Name: "Bruno"}
	repo := &meetingRepoStub{overlapping: map[string][]Meeting{
		"p1": {busyAt(t, 10, 14, 0, 60)},
	}}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	first, err := svc.FindConflicts(context.Background(), proposedFor(owner, p1))
	if err != nil {
		t.Fatalf("first FindConflicts returned error: %v", err)
	}
	second, err := svc.FindConflicts(context.Background(), proposedFor(owner, p1))
	if err != nil {
		t.Fatalf("second FindConflicts returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls diverged: %v vs %v", first, second)
	}
}

func TestFindConflicts_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("store unavailable")
	repo := &meetingRepoStub{overlapErr: storeErr}
	svc := newTestCalendarService(repo, nil, fixedNow(t))

	_, err := svc.FindConflicts(context.Background(), proposedFor(Employee{ID: "owner"}))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestBookMeeting_UnknownOwnerPersistsNothing(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	directory := &directoryStub{employees: map[string]Employee{}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	_, err := svc.BookMeeting(context.Background(), BookMeetingParams{
		OwnerID: "ghost",
		Title:   "Kickoff",
		Start:   time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("meeting persisted despite unknown owner")
	}
}

func TestBookMeeting_PersistsWithGeneratedIdentity(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	directory := &directoryStub{employees: map[string]Employee{
		"owner": {ID: "owner", Name: "Asha"},
	}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	meeting, err := svc.BookMeeting(context.Background(), BookMeetingParams{
		OwnerID:        "owner",
		Title:          "  Kickoff  ",
		Start:          start,
		End:            start.Add(time.Hour),
		ParticipantIDs: []string{"p1", "p2"},
	})
	if err != nil {
		t.Fatalf("BookMeeting returned error: %v", err)
	}

	if meeting.ID != "meeting-1" {
		t.Fatalf("expected generated id, got %q", meeting.ID)
	}
	if meeting.Title != "Kickoff" {
		t.Fatalf("expected trimmed title, got %q", meeting.Title)
	}
	if meeting.OwnerID != "owner" {
		t.Fatalf("unexpected owner: %q", meeting.OwnerID)
	}
	if !reflect.DeepEqual(meeting.ParticipantIDs, []string{"p1", "p2"}) {
		t.Fatalf("unexpected participants: %v", meeting.ParticipantIDs)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted meeting, got %d", len(repo.created))
	}
	if !meeting.CreatedAt.Equal(fixedNow(t)()) {
		t.Fatalf("unexpected created timestamp: %v", meeting.CreatedAt)
	}
}

func TestBookMeeting_MissingTimestampsAreInvalid(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{}
	directory := &directoryStub{employees: map[string]Employee{
		"owner": {ID: "owner"},
	}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	_, err := svc.BookMeeting(context.Background(), BookMeetingParams{OwnerID: "owner", Title: "Kickoff"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"start_time", "end_time"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected field error for %s, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestBookMeeting_DoesNotGuardAgainstConflicts(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	repo := &meetingRepoStub{overlapping: map[string][]Meeting{
		"owner": {busyAt(t, 10, 14, 0, 60)},
	}}
	directory := &directoryStub{employees: map[string]Employee{
		"owner": {ID: "owner"},
	}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	if _, err := svc.BookMeeting(context.Background(), BookMeetingParams{
		OwnerID: "owner",
		Title:   "Double booked",
		Start:   start,
		End:     start.Add(time.Hour),
	}); err != nil {
		t.Fatalf("BookMeeting returned error: %v", err)
	}

	if len(repo.queried) != 0 {
		t.Fatal("booking must not issue overlap queries")
	}
	if len(repo.created) != 1 {
		t.Fatal("expected the conflicting meeting to be persisted anyway")
	}
}

func TestBookMeeting_InvertedIntervalIsInvalidNotUnexpected(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{createErr: persistence.ErrConstraintViolation}
	directory := &directoryStub{employees: map[string]Employee{
		"owner": {ID: "owner", Name: "Asha"},
	}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	_, err := svc.BookMeeting(context.Background(), BookMeetingParams{
		OwnerID: "owner",
		Title:   "Backwards",
		Start:   start,
		End:     start.Add(-time.Hour),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for inverted interval, got %v", err)
	}
	if _, ok := vErr.FieldErrors["end_time"]; !ok {
		t.Fatalf("expected field error for end_time, got %v", vErr.FieldErrors)
	}
	if kind := ErrorKind(err); kind != "validation" {
		t.Fatalf("expected validation error kind, got %q", kind)
	}
}

func TestBookMeeting_MapsForeignKeyViolations(t *testing.T) {
	t.Parallel()

	repo := &meetingRepoStub{createErr: persistence.ErrForeignKeyViolation}
	directory := &directoryStub{employees: map[string]Employee{
		"owner": {ID: "owner"},
	}}
	svc := newTestCalendarService(repo, directory, fixedNow(t))

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	_, err := svc.BookMeeting(context.Background(), BookMeetingParams{
		OwnerID: "owner",
		Title:   "Kickoff",
		Start:   start,
		End:     start.Add(time.Hour),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for foreign key violation, got %v", err)
	}
}
