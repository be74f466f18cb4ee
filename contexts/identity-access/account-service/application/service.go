package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitesense/contexts/identity-access/account-service/domain/entities"
	domainerrors "sitesense/contexts/identity-access/account-service/domain/errors"
	"sitesense/contexts/identity-access/account-service/ports"
)

type Service struct {
	Repo     ports.Repository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenStrategy
	Policy   ports.PolicyWriter
	Registry ports.RegistryReader
	Clock    ports.Clock
	IDs      ports.IDGenerator
	Logger   *slog.Logger
}

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Organization string
}

func (s Service) Register(ctx context.Context, input RegisterInput) (entities.Account, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || len(username) > entities.MaxUsernameLength {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}
	if email == "" || !strings.Contains(email, "@") {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}
	if len(input.Password) < 8 {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}
	if len(input.Organization) > entities.MaxOrganizationLength {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return entities.Account{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Account{}, fmt.Errorf("generate account id: %w", err)
	}

	account := entities.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         entities.DefaultRole,
		Organization: strings.TrimSpace(input.Organization),
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		return entities.Account{}, err
	}
	// Role-level rules in the policy file only reach an account through
	// its grouping row; without this link a fresh account matches no
	// role rule at all.
	if err := s.Policy.AddRoleLink(ctx, account.Username, account.Role); err != nil {
		return entities.Account{}, fmt.Errorf("link role: %w", err)
	}

	resolveLogger(s.Logger).Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.ID,
		"username", account.Username,
	)
	account.PasswordHash = ""
	return account, nil
}

func (s Service) Login(ctx context.Context, username string, password string) (ports.IssuedToken, error) {
	account, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return ports.IssuedToken{}, domainerrors.ErrInvalidCredentials
		}
		return ports.IssuedToken{}, err
	}
	if !account.IsActive {
		return ports.IssuedToken{}, domainerrors.ErrAccountInactive
	}
	if err := s.Hasher.Compare(account.PasswordHash, password); err != nil {
		return ports.IssuedToken{}, domainerrors.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(ctx, account.ID, account.Username)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// VerifyToken resolves a bearer token to its bound account. Invalid
// tokens and unknown or inactive accounts return sentinel errors so
// the authorization pipeline can fold them into anonymous; any other
// error is a backend failure.
func (s Service) VerifyToken(ctx context.Context, token string) (entities.Account, error) {
	subject, err := s.Tokens.ReadSubject(ctx, token)
	if err != nil {
		return entities.Account{}, domainerrors.ErrTokenInvalid
	}
	account, err := s.Repo.GetByID(ctx, subject)
	if err != nil {
		return entities.Account{}, err
	}
	if !account.IsActive {
		return entities.Account{}, domainerrors.ErrAccountInactive
	}
	return account, nil
}

func (s Service) GetByUsername(ctx context.Context, username string) (entities.Account, error) {
	if strings.TrimSpace(username) == "" {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	account, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return entities.Account{}, err
	}
	account.PasswordHash = ""
	return account, nil
}

func (s Service) List(ctx context.Context, actorUsername string) ([]entities.Account, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return nil, err
	}
	accounts, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts, nil
}

type SetRoleInput struct {
	AccountID string
	Role      string
}

// SetRole updates a user's role. Returns false without touching
// storage when the role is already set.
func (s Service) SetRole(ctx context.Context, actorUsername string, input SetRoleInput) (bool, error) {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return false, err
	}
	role := strings.TrimSpace(input.Role)
	if role == "" || len(role) > entities.MaxUsernameLength {
		return false, domainerrors.ErrInvalidAccessSetting
	}

	account, err := s.Repo.GetByID(ctx, input.AccountID)
	if err != nil {
		return false, err
	}
	if account.Role == role {
		return false, nil
	}
	if err := s.Repo.UpdateRole(ctx, account.ID, role); err != nil {
		return false, err
	}
	if err := s.Policy.RemoveRoleLink(ctx, account.Username, account.Role); err != nil {
		return false, err
	}
	if err := s.Policy.AddRoleLink(ctx, account.Username, role); err != nil {
		return false, err
	}
	return true, nil
}

type UpdateAccountInput struct {
	Email        *string
	Password     *string
	Organization *string
}

// Update edits an account's profile. Superusers can edit any account;
// everyone else only their own.
func (s Service) Update(ctx context.Context, actorUsername string, accountID string, input UpdateAccountInput) (entities.Account, error) {
	actor, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(actorUsername))
	if err != nil {
		return entities.Account{}, err
	}
	account, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return entities.Account{}, err
	}
	if !actor.IsSuperuser && actor.ID != account.ID {
		return entities.Account{}, domainerrors.ErrAdminRequired
	}

	var update ports.AccountUpdate
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return entities.Account{}, domainerrors.ErrInvalidRegistration
		}
		update.Email = &email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return entities.Account{}, domainerrors.ErrInvalidRegistration
		}
		hash, err := s.Hasher.Hash(*input.Password)
		if err != nil {
			return entities.Account{}, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}
	if input.Organization != nil {
		organization := strings.TrimSpace(*input.Organization)
		if len(organization) > entities.MaxOrganizationLength {
			return entities.Account{}, domainerrors.ErrInvalidRegistration
		}
		update.Organization = &organization
	}

	if err := s.Repo.UpdateAccount(ctx, account.ID, update); err != nil {
		return entities.Account{}, err
	}
	updated, err := s.Repo.GetByID(ctx, account.ID)
	if err != nil {
		return entities.Account{}, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// Deactivate disables an account. The row stays, so logins and token
// verifications fail with the inactive sentinel instead of not-found.
func (s Service) Deactivate(ctx context.Context, actorUsername string, accountID string) error {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return err
	}
	account, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	active := false
	if err := s.Repo.UpdateAccount(ctx, account.ID, ports.AccountUpdate{IsActive: &active}); err != nil {
		return err
	}

	resolveLogger(s.Logger).Info("account deactivated",
		"event", "account_deactivated",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.ID,
		"username", account.Username,
	)
	return nil
}

// SetAccess grants or revokes resource access for an account. Each
// granted resource gets both an association row and a policy rule
// (username, /<type>s/<id>*, *); revokes remove both.
func (s Service) SetAccess(ctx context.Context, actorUsername string, mutation ports.AccessMutation) error {
	if err := s.requireSuperuser(ctx, actorUsername); err != nil {
		return err
	}
	if mutation.ResourceType != ports.ResourceTypeProject && mutation.ResourceType != ports.ResourceTypeWorksite {
		return domainerrors.ErrInvalidResourceType
	}
	if mutation.Access != ports.AccessAllow && mutation.Access != ports.AccessDeny {
		return domainerrors.ErrInvalidAccessSetting
	}

	account, err := s.Repo.GetByID(ctx, mutation.AccountID)
	if err != nil {
		return err
	}

	for _, resourceID := range mutation.ResourceIDs {
		exists, err := s.resourceExists(ctx, mutation.ResourceType, resourceID)
		if err != nil {
			return err
		}
		if !exists {
			return domainerrors.ErrResourceNotFound
		}
	}

	for _, resourceID := range mutation.ResourceIDs {
		object := "/" + mutation.ResourceType + "s/" + resourceID + "*"
		if mutation.Access == ports.AccessAllow {
			if err := s.Repo.AddGrant(ctx, account.ID, mutation.ResourceType, resourceID); err != nil {
				return err
			}
			if err := s.Policy.AddRule(ctx, account.Username, object, "*"); err != nil {
				return err
			}
		} else {
			if err := s.Repo.RemoveGrant(ctx, account.ID, mutation.ResourceType, resourceID); err != nil {
				return err
			}
			if err := s.Policy.RemoveRule(ctx, account.Username, object, "*"); err != nil {
				return err
			}
		}
	}

	resolveLogger(s.Logger).Info("account access updated",
		"event", "account_access_updated",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.ID,
		"resource_type", mutation.ResourceType,
		"access", mutation.Access,
		"resources", len(mutation.ResourceIDs),
	)
	return nil
}

func (s Service) resourceExists(ctx context.Context, resourceType string, resourceID string) (bool, error) {
	if s.Registry == nil {
		return true, nil
	}
	if resourceType == ports.ResourceTypeProject {
		return s.Registry.ProjectExists(ctx, resourceID)
	}
	return s.Registry.WorksiteExists(ctx, resourceID)
}

func (s Service) requireSuperuser(ctx context.Context, actorUsername string) error {
	actor, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(actorUsername))
	if err != nil {
		return err
	}
	if !actor.IsSuperuser {
		return domainerrors.ErrAdminRequired
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
