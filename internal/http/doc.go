// Package http provides HTTP handlers and middleware for the calendar API.
//
// The router exposes the following endpoints:
//   - POST /api/calendar/meetings?ownerId={id}: books a meeting. Body is the
//     `meetingRequest` payload defined in calendar_handler.go; responds 201
//     with the booked meeting, its owner, and resolved participants.
//   - GET /api/calendar/free-slots?employee1Id&employee2Id&durationMinutes:
//     lists every mutually free candidate slot for the two employees within
//     the business-hours search horizon, in chronological order.
//   - POST /api/calendar/conflicts: checks a proposed meeting and responds
//     with the employees who already have an overlapping meeting.
//   - GET /api/employees, POST /api/employees, GET /api/employees/{id}:
//     employee directory endpoints exchanging the `employeeDTO` payload
//     defined in employee_handler.go.
//
// Failures are rendered as the structured `errorResponse` payload: timestamp,
// numeric status, status label, human message, and an optional field-level
// details map. Request/response DTOs live alongside their handlers so tests
// and documentation share the same ground truth.
package http
