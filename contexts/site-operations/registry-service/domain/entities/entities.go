package entities

import "time"

const (
	MaxNameLength        = 64
	MaxDescriptionLength = 512
)

// Project is the top of the site hierarchy.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Worksite belongs to exactly one project.
type Worksite struct {
	ID          string
	Name        string
	Description string
	ProjectID   string
	CreatedAt   time.Time
}

// Zone belongs to exactly one worksite. ProjectID is denormalized from
// the owning worksite so ownership checks need a single lookup.
type Zone struct {
	ID          string
	Name        string
	Description string
	FeedURI     string
	WorksiteID  string
	ProjectID   string
	CreatedAt   time.Time
}
