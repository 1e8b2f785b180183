package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/application"
)

type calendarService interface {
	BookMeeting(ctx context.Context, params application.BookMeetingParams) (application.Meeting, error)
	FindFreeSlots(ctx context.Context, params application.FindFreeSlotsParams) ([]application.TimeSlot, error)
	FindConflicts(ctx context.Context, proposed application.ProposedMeeting) ([]application.Employee, error)
}

type employeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (application.Employee, error)
	ResolveEmployees(ctx context.Context, ids []string) ([]application.Employee, error)
}

// CalendarHandler serves the booking, free-slot, and conflict endpoints. It
// owns participant validation: ids are resolved to directory records before
// the calendar service is invoked.
type CalendarHandler struct {
	service   calendarService
	directory employeeDirectory
	responder responder
}

// NewCalendarHandler wires the calendar endpoints.
func NewCalendarHandler(service calendarService, directory employeeDirectory, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, directory: directory, responder: newResponder(logger)}
}

// BookMeeting handles POST /api/calendar/meetings.
func (h *CalendarHandler) BookMeeting(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	ownerID := strings.TrimSpace(r.URL.Query().Get("ownerId"))
	if ownerID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errMissingOwnerID)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	participants, err := h.directory.ResolveEmployees(ctx, req.ParticipantIDs)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	meeting, err := h.service.BookMeeting(ctx, application.BookMeetingParams{
		OwnerID:        ownerID,
		Title:          req.Title,
		Start:          parseTime(req.StartTime),
		End:            parseTime(req.EndTime),
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	owner, err := h.directory.GetEmployee(ctx, meeting.OwnerID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	handlerLogger(ctx, h.responder.logger, "calendar", "book_meeting").InfoContext(ctx, "meeting booked", "meeting_id", meeting.ID)
	h.responder.writeJSON(ctx, w, http.StatusCreated, toMeetingDTO(meeting, owner, participants))
}

// FindFreeSlots handles GET /api/calendar/free-slots.
func (h *CalendarHandler) FindFreeSlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	query := r.URL.Query()
	employee1ID := strings.TrimSpace(query.Get("employee1Id"))
	employee2ID := strings.TrimSpace(query.Get("employee2Id"))
	if employee1ID == "" || employee2ID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errMissingEmployeeIDs)
		return
	}

	durationMinutes, err := strconv.Atoi(strings.TrimSpace(query.Get("durationMinutes")))
	if err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidDuration)
		return
	}

	slots, err := h.service.FindFreeSlots(ctx, application.FindFreeSlotsParams{
		Employee1ID: employee1ID,
		Employee2ID: employee2ID,
		Duration:    time.Duration(durationMinutes) * time.Minute,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toFreeSlotDTOs(slots))
}

// FindConflicts handles POST /api/calendar/conflicts.
func (h *CalendarHandler) FindConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	proposed := application.ProposedMeeting{
		Title: req.Title,
		Start: parseTime(req.StartTime),
		End:   parseTime(req.EndTime),
	}

	if ownerID := strings.TrimSpace(req.OwnerID); ownerID != "" {
		owner, err := h.directory.GetEmployee(ctx, ownerID)
		if err != nil {
			h.responder.handleServiceError(ctx, w, fmt.Errorf("owner not found with id %s: %w", ownerID, err))
			return
		}
		proposed.Owner = owner
	}

	participants, err := h.directory.ResolveEmployees(ctx, req.ParticipantIDs)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}
	proposed.Participants = participants

	conflicting, err := h.service.FindConflicts(ctx, proposed)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toEmployeeDTOs(conflicting))
}

type meetingRequest struct {
	Title          string   `json:"title"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	OwnerID        string   `json:"ownerId"`
	ParticipantIDs []string `json:"participantIds"`
}

const localDateTimeLayout = "2006-01-02T15:04:05"

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if ts, err := time.ParseInLocation(localDateTimeLayout, value, time.Local); err == nil {
		return ts
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.Format(localDateTimeLayout)
}

type meetingDTO struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	StartTime    string        `json:"startTime"`
	EndTime      string        `json:"endTime"`
	Owner        employeeDTO   `json:"owner"`
	Participants []employeeDTO `json:"participants"`
}

func toMeetingDTO(meeting application.Meeting, owner application.Employee, participants []application.Employee) meetingDTO {
	return meetingDTO{
		ID:           meeting.ID,
		Title:        meeting.Title,
		StartTime:    formatTime(meeting.Start),
		EndTime:      formatTime(meeting.End),
		Owner:        toEmployeeDTO(owner),
		Participants: toEmployeeDTOs(participants),
	}
}

type freeSlotDTO struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func toFreeSlotDTOs(slots []application.TimeSlot) []freeSlotDTO {
	out := make([]freeSlotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, freeSlotDTO{
			Date:      slot.Start.Format("2006-01-02"),
			StartTime: slot.Start.Format("15:04"),
			EndTime:   slot.End.Format("15:04"),
		})
	}
	return out
}
