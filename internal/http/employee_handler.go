package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goutamiuppu/calendar-assistant/internal/application"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, input application.EmployeeInput) (application.Employee, error)
	GetEmployee(ctx context.Context, id string) (application.Employee, error)
	ListEmployees(ctx context.Context) ([]application.Employee, error)
}

// EmployeeHandler serves the employee directory endpoints.
type EmployeeHandler struct {
	service   employeeService
	responder responder
}

// NewEmployeeHandler wires the employee endpoints.
func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, responder: newResponder(logger)}
}

// Create handles POST /api/employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	employee, err := h.service.CreateEmployee(ctx, application.EmployeeInput{Name: req.Name})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	handlerLogger(ctx, h.responder.logger, "employees", "create").InfoContext(ctx, "employee created", "employee_id", employee.ID)
	h.responder.writeJSON(ctx, w, http.StatusCreated, toEmployeeDTO(employee))
}

// Get handles GET /api/employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	employeeID, ok := EmployeeIDFromContext(ctx)
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	employee, err := h.service.GetEmployee(ctx, employeeID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toEmployeeDTO(employee))
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	employees, err := h.service.ListEmployees(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toEmployeeDTOs(employees))
}

type employeeRequest struct {
	Name string `json:"name"`
}

type employeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toEmployeeDTO(employee application.Employee) employeeDTO {
	return employeeDTO{ID: employee.ID, Name: employee.Name}
}

func toEmployeeDTOs(employees []application.Employee) []employeeDTO {
	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	return out
}
