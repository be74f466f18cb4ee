package ports

import (
	"context"
	"time"

	"sitesense/contexts/identity-access/account-service/domain/entities"
)

const (
	ResourceTypeProject  = "project"
	ResourceTypeWorksite = "worksite"

	AccessAllow = "allow"
	AccessDeny  = "deny"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new accounts.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// IssuedToken is a signed bearer credential with its expiry.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// TokenStrategy signs and reads bearer tokens bound to account IDs.
type TokenStrategy interface {
	Issue(ctx context.Context, accountID string, username string) (IssuedToken, error)
	ReadSubject(ctx context.Context, token string) (string, error)
}

// PolicyWriter mutates the authorization rule table when access grants
// or role membership change. The concrete rule engine is injected by
// bootstrap. Role links are the grouping rows that connect a username
// to the role-level rules in the policy file.
type PolicyWriter interface {
	AddRule(ctx context.Context, subject string, object string, action string) error
	RemoveRule(ctx context.Context, subject string, object string, action string) error
	AddRoleLink(ctx context.Context, subject string, role string) error
	RemoveRoleLink(ctx context.Context, subject string, role string) error
}

// RegistryReader validates that granted resources exist.
type RegistryReader interface {
	ProjectExists(ctx context.Context, projectID string) (bool, error)
	WorksiteExists(ctx context.Context, worksiteID string) (bool, error)
}

// AccountUpdate carries optional profile mutations; nil fields are
// left untouched.
type AccountUpdate struct {
	Email        *string
	PasswordHash *string
	Organization *string
	IsActive     *bool
}

// AccessMutation captures one allow/deny grant request.
type AccessMutation struct {
	AccountID    string
	ResourceType string
	ResourceIDs  []string
	Access       string
}

// Repository is the write/read boundary for account state.
type Repository interface {
	Create(ctx context.Context, account entities.Account) error
	GetByID(ctx context.Context, accountID string) (entities.Account, error)
	GetByUsername(ctx context.Context, username string) (entities.Account, error)
	List(ctx context.Context) ([]entities.Account, error)
	UpdateRole(ctx context.Context, accountID string, role string) error
	UpdateAccount(ctx context.Context, accountID string, update AccountUpdate) error
	AddGrant(ctx context.Context, accountID string, resourceType string, resourceID string) error
	RemoveGrant(ctx context.Context, accountID string, resourceType string, resourceID string) error
	ListGrants(ctx context.Context, username string) (projectIDs []string, worksiteIDs []string, err error)
}
