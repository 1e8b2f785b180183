package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/persistence"
)

// CreateMeeting stores a meeting together with its participant list in a
// single transaction. Referential integrity against the employees table is
// enforced by the schema; violations surface as ErrForeignKeyViolation.
func (s *Store) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meetings (id, title, start_time, end_time, owner_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			meeting.ID, meeting.Title,
			formatTime(meeting.Start), formatTime(meeting.End),
			meeting.OwnerID,
			formatTime(meeting.CreatedAt), formatTime(meeting.UpdatedAt)); err != nil {
			return err
		}

		for position, employeeID := range meeting.ParticipantIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO meeting_participants (meeting_id, employee_id, position) VALUES (?, ?, ?)`,
				meeting.ID, employeeID, position); err != nil {
				return err
			}
		}

		return nil
	})
	return mapError(err)
}

// GetMeeting retrieves a meeting by id including its participant ids.
func (s *Store) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, start_time, end_time, owner_id, created_at, updated_at
		 FROM meetings WHERE id = ?`, id)

	meeting, err := scanMeeting(row)
	if err != nil {
		return persistence.Meeting{}, err
	}

	meeting.ParticipantIDs, err = s.loadParticipants(ctx, meeting.ID)
	if err != nil {
		return persistence.Meeting{}, err
	}

	return meeting, nil
}

// FindOverlapping returns every meeting in which the employee is owner or
// participant and whose interval intersects [windowStart, windowEnd) under
// half-open semantics, ordered by start time.
func (s *Store) FindOverlapping(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]persistence.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.title, m.start_time, m.end_time, m.owner_id, m.created_at, m.updated_at
		 FROM meetings m
		 WHERE (m.owner_id = ?
		        OR EXISTS (SELECT 1 FROM meeting_participants p
		                   WHERE p.meeting_id = m.id AND p.employee_id = ?))
		   AND m.start_time < ?
		   AND m.end_time > ?
		 ORDER BY m.start_time, m.id`,
		employeeID, employeeID, formatTime(windowEnd), formatTime(windowStart))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	meetings := make([]persistence.Meeting, 0)
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range meetings {
		meetings[i].ParticipantIDs, err = s.loadParticipants(ctx, meetings[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return meetings, nil
}

func (s *Store) loadParticipants(ctx context.Context, meetingID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id FROM meeting_participants WHERE meeting_id = ? ORDER BY position`,
		meetingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return ids, nil
}

func scanMeeting(row rowScanner) (persistence.Meeting, error) {
	var meeting persistence.Meeting
	var start, end, createdAt, updatedAt string

	if err := row.Scan(&meeting.ID, &meeting.Title, &start, &end, &meeting.OwnerID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Meeting{}, persistence.ErrNotFound
		}
		return persistence.Meeting{}, mapError(err)
	}

	var err error
	if meeting.Start, err = parseTime(start); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.End, err = parseTime(end); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Meeting{}, err
	}

	return meeting, nil
}
