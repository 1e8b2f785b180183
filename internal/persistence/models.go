package persistence

import "time"

// Employee represents an employee record in the directory.
type Employee struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meeting represents a booked meeting stored in persistence. Ownership and
// participation are directed associations by employee id; the employee side
// holds no back-references.
type Meeting struct {
	ID             string
	Title          string
	Start          time.Time
	End            time.Time
	OwnerID        string
	ParticipantIDs []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
