package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/interval"
	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

// MeetingRepository captures the persistence interactions needed by the
// calendar service. FindOverlapping is the only query the scheduling logic
// relies on: every meeting where the employee is owner or participant and the
// meeting interval intersects [windowStart, windowEnd).
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	FindOverlapping(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]Meeting, error)
}

// EmployeeDirectory exposes the employee lookups the calendar service needs.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
}

// CalendarService implements meeting booking, conflict detection, and mutual
// free-slot discovery. It holds no mutable state; every operation is a pure
// function of its inputs plus store queries, so concurrent use is safe.
type CalendarService struct {
	meetings    MeetingRepository
	directory   EmployeeDirectory
	slots       SlotSearchOptions
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarService wires dependencies for calendar operations.
func NewCalendarService(meetings MeetingRepository, directory EmployeeDirectory, slots SlotSearchOptions, idGenerator func() string, now func() time.Time) *CalendarService {
	return NewCalendarServiceWithLogger(meetings, directory, slots, idGenerator, now, nil)
}

// NewCalendarServiceWithLogger constructs a calendar service with a specified logger.
func NewCalendarServiceWithLogger(meetings MeetingRepository, directory EmployeeDirectory, slots SlotSearchOptions, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		meetings:    meetings,
		directory:   directory,
		slots:       slots.normalized(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// BookMeeting resolves the owner and persists the meeting. Double-booking is
// deliberately not prevented here: conflict detection is a separate, opt-in
// query. Callers wanting an atomic guard must rely on the store's
// compare-and-insert hooks.
func (s *CalendarService) BookMeeting(ctx context.Context, params BookMeetingParams) (meeting Meeting, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "BookMeeting",
		"owner_id", params.OwnerID,
		"title", params.Title,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to book meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("meeting_id", meeting.ID).InfoContext(ctx, "meeting booked", "start", meeting.Start)
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(params.OwnerID) == "" {
		vErr.add("owner_id", "owner id is required")
	}
	if params.Start.IsZero() {
		vErr.add("start_time", "start time must not be null")
	}
	if params.End.IsZero() {
		vErr.add("end_time", "end time must not be null")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	owner, err := s.directory.GetEmployee(ctx, params.OwnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("owner not found with id %s: %w", params.OwnerID, ErrNotFound)
		}
		return
	}

	createdAt := s.now()
	meeting = Meeting{
		ID:             s.idGenerator(),
		Title:          strings.TrimSpace(params.Title),
		Start:          params.Start,
		End:            params.End,
		OwnerID:        owner.ID,
		ParticipantIDs: append([]string(nil), params.ParticipantIDs...),
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if s.meetings == nil {
		return
	}

	persisted, err := s.meetings.CreateMeeting(ctx, meeting)
	if err != nil {
		err = mapMeetingRepoError(err)
		meeting = Meeting{}
		return
	}

	meeting = persisted
	return
}

// FindConflicts returns every employee on the proposed meeting who already
// has an overlapping meeting: the owner first when conflicting, then
// participants in their given order. The result is not deduplicated, so an
// owner who also appears in the participant list can appear twice.
func (s *CalendarService) FindConflicts(ctx context.Context, proposed ProposedMeeting) (conflicting []Employee, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "FindConflicts",
		"title", proposed.Title,
		"start", proposed.Start,
		"end", proposed.End,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check conflicts", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "conflict check completed", "conflicting", len(conflicting))
	}()

	if proposed.Owner.ID == "" {
		vErr := &ValidationError{}
		vErr.add("owner_id", "proposed meeting has no owner assigned")
		err = vErr
		return
	}

	ownerMeetings, err := s.meetings.FindOverlapping(ctx, proposed.Owner.ID, proposed.Start, proposed.End)
	if err != nil {
		return
	}
	logger.DebugContext(ctx, "checked owner for conflicts", "owner_id", proposed.Owner.ID, "overlapping", len(ownerMeetings))

	conflicting = make([]Employee, 0, len(proposed.Participants)+1)
	if len(ownerMeetings) > 0 {
		conflicting = append(conflicting, proposed.Owner)
	}

	for _, participant := range proposed.Participants {
		var overlapping []Meeting
		overlapping, err = s.meetings.FindOverlapping(ctx, participant.ID, proposed.Start, proposed.End)
		if err != nil {
			conflicting = nil
			return
		}
		logger.DebugContext(ctx, "checked participant for conflicts", "participant_id", participant.ID, "overlapping", len(overlapping))
		if len(overlapping) > 0 {
			conflicting = append(conflicting, participant)
		}
	}

	return
}

// FindFreeSlots enumerates every candidate slot within the business-hours
// search horizon where both employees are simultaneously free. The search
// window starts at the current day's business-hours start and ends at
// business-hours end HorizonDays later. Candidates are stepped at the
// configured granularity across the whole window; a candidate qualifies when
// its start hour falls inside business hours (only the start is filtered, so
// a late slot may end past closing) and the slot overlaps no meeting of
// either employee. Adjacent qualifying steps are emitted as distinct slots,
// never merged.
func (s *CalendarService) FindFreeSlots(ctx context.Context, params FindFreeSlotsParams) (slots []TimeSlot, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "FindFreeSlots",
		"employee1_id", params.Employee1ID,
		"employee2_id", params.Employee2ID,
		"duration", params.Duration,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to find free slots", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "free slot search completed", "slots", len(slots))
	}()

	if params.Duration <= 0 {
		vErr := &ValidationError{}
		vErr.add("duration_minutes", "duration must be positive")
		err = vErr
		return
	}

	if _, err = s.directory.GetEmployee(ctx, params.Employee1ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("employee 1 not found with id %s: %w", params.Employee1ID, ErrNotFound)
		}
		return
	}
	if _, err = s.directory.GetEmployee(ctx, params.Employee2ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("employee 2 not found with id %s: %w", params.Employee2ID, ErrNotFound)
		}
		return
	}

	windowStart, windowEnd := s.searchWindow()
	logger.DebugContext(ctx, "searching for meetings in window", "window_start", windowStart, "window_end", windowEnd)

	meetings1, err := s.meetings.FindOverlapping(ctx, params.Employee1ID, windowStart, windowEnd)
	if err != nil {
		return
	}
	meetings2, err := s.meetings.FindOverlapping(ctx, params.Employee2ID, windowStart, windowEnd)
	if err != nil {
		return
	}
	logger.DebugContext(ctx, "fetched overlapping meetings", "employee1_meetings", len(meetings1), "employee2_meetings", len(meetings2))

	slots = make([]TimeSlot, 0)
	for current := windowStart; current.Before(windowEnd); current = current.Add(s.slots.Step) {
		hour := current.Hour()
		if hour < s.slots.BusinessStartHour || hour >= s.slots.BusinessEndHour {
			continue
		}

		slotEnd := current.Add(params.Duration)
		if slotIsFree(current, slotEnd, meetings1) && slotIsFree(current, slotEnd, meetings2) {
			slots = append(slots, TimeSlot{Start: current, End: slotEnd})
		}
	}

	return
}

func (s *CalendarService) searchWindow() (time.Time, time.Time) {
	now := s.now()
	loc := now.Location()

	start := time.Date(now.Year(), now.Month(), now.Day(), s.slots.BusinessStartHour, 0, 0, 0, loc)
	lastDay := start.AddDate(0, 0, s.slots.HorizonDays)
	end := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), s.slots.BusinessEndHour, 0, 0, 0, loc)
	return start, end
}

func slotIsFree(start, end time.Time, meetings []Meeting) bool {
	for _, meeting := range meetings {
		if interval.Overlaps(meeting.Start, meeting.End, start, end) {
			return false
		}
	}
	return true
}

func mapMeetingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("participant_ids", "related employee records are missing")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("end_time", "start time must be before end time")
		return vErr
	}
	return err
}
