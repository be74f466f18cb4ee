package entities

import "time"

const (
	MinFirstNameLength = 3
	MaxNameLength      = 64
	MaxLabelLength     = 36
)

// Employee is a site worker tracked for attendance.
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        int64
	Role         string
	Organization string
	CreatedAt    time.Time
}

// AttendanceEntry is one indexed attendance log record. EventID is the
// dedup key: the indexer drops envelopes it has already seen.
type AttendanceEntry struct {
	EventID    string
	EmployeeID string
	WorksiteID string
	RecordedAt time.Time
}
