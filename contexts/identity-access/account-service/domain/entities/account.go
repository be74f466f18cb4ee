package entities

import "time"

const (
	MaxUsernameLength     = 24
	MaxOrganizationLength = 24
	DefaultRole           = "wadmin"
)

// Account is a registered user. ProjectIDs and WorksiteIDs are the
// resource grants backing the ownership fallback of the authorization
// pipeline.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Organization string
	IsActive     bool
	IsSuperuser  bool
	ProjectIDs   []string
	WorksiteIDs  []string
	CreatedAt    time.Time
}
