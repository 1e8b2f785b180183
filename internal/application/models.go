package application

import "time"

// Employee represents a directory record that can own or attend meetings.
type Employee struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meeting represents a booked meeting. Ownership and participation are
// directed associations by employee id; employees hold no back-references,
// so participation is always discovered by querying the store.
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

// TimeSlot is a candidate free window produced by the free-slot finder. It is
// derived, never persisted.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// EmployeeInput captures caller provided employee fields.
type EmployeeInput struct {
	Name string
}

// BookMeetingParams wraps the data required to book a meeting. Participants
// are expected to be validated by the request boundary beforehand.
type BookMeetingParams struct {
	OwnerID        string
	Title          string
	Start          time.Time
	End            time.Time
	ParticipantIDs []string
}

// ProposedMeeting describes a meeting being checked for conflicts. Owner and
// participants are already resolved to directory records by the caller.
type ProposedMeeting struct {
	Title        string
	Start        time.Time
	End          time.Time
	Owner        Employee
	Participants []Employee
}

// FindFreeSlotsParams wraps the inputs of a mutual free-slot search.
type FindFreeSlotsParams struct {
	Employee1ID string
	Employee2ID string
	Duration    time.Duration
}

// SlotSearchOptions bound the free-slot search. The zero value is normalized
// to the defaults: business hours 09:00-17:00, 30 minute steps, 7 day horizon.
type SlotSearchOptions struct {
	BusinessStartHour int
	BusinessEndHour   int
	Step              time.Duration
	HorizonDays       int
}

// DefaultSlotSearchOptions returns the documented scheduling defaults.
func DefaultSlotSearchOptions() SlotSearchOptions {
	return SlotSearchOptions{
		BusinessStartHour: 9,
		BusinessEndHour:   17,
		Step:              30 * time.Minute,
		HorizonDays:       7,
	}
}

func (o SlotSearchOptions) normalized() SlotSearchOptions {
	defaults := DefaultSlotSearchOptions()
	if o.BusinessStartHour <= 0 && o.BusinessEndHour <= 0 {
		o.BusinessStartHour = defaults.BusinessStartHour
		o.BusinessEndHour = defaults.BusinessEndHour
	}
	if o.Step <= 0 {
		o.Step = defaults.Step
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = defaults.HorizonDays
	}
	return o
}
