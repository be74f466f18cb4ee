package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sitesense/contexts/identity-access/account-service/domain/entities"
	domainerrors "sitesense/contexts/identity-access/account-service/domain/errors"
	"sitesense/contexts/identity-access/account-service/ports"
)

type grantSet struct {
	projects  map[string]struct{}
	worksites map[string]struct{}
}

// Store is the in-memory account adapter used by tests and development
// wiring. It satisfies Repository, Clock, and IDGenerator.
type Store struct {
	mu sync.RWMutex

	accountsByID map[string]entities.Account
	idByUsername map[string]string
	idByEmail    map[string]string
	grantsByID   map[string]grantSet
}

func NewStore() *Store {
	return &Store{
		accountsByID: make(map[string]entities.Account),
		idByUsername: make(map[string]string),
		idByEmail:    make(map[string]string),
		grantsByID:   make(map[string]grantSet),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) Create(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(account.Username)
	if _, exists := s.idByUsername[username]; exists {
		return domainerrors.ErrUsernameExists
	}
	if _, exists := s.idByEmail[account.Email]; exists {
		return domainerrors.ErrEmailExists
	}

	s.accountsByID[account.ID] = account
	s.idByUsername[username] = account.ID
	s.idByEmail[account.Email] = account.ID
	s.grantsByID[account.ID] = grantSet{
		projects:  make(map[string]struct{}),
		worksites: make(map[string]struct{}),
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, accountID string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.withGrants(account), nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByUsername[strings.ToLower(username)]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.withGrants(s.accountsByID[id]), nil
}

func (s *Store) List(_ context.Context) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Account, 0, len(s.accountsByID))
	for _, account := range s.accountsByID {
		items = append(items, s.withGrants(account))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Username < items[j].Username })
	return items, nil
}

func (s *Store) UpdateRole(_ context.Context, accountID string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.Role = role
	s.accountsByID[accountID] = account
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, accountID string, update ports.AccountUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accountsByID[accountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	if update.Email != nil && *update.Email != account.Email {
		if _, exists := s.idByEmail[*update.Email]; exists {
			return domainerrors.ErrEmailExists
		}
		delete(s.idByEmail, account.Email)
		account.Email = *update.Email
		s.idByEmail[account.Email] = account.ID
	}
	if update.PasswordHash != nil {
		account.PasswordHash = *update.PasswordHash
	}
	if update.Organization != nil {
		account.Organization = *update.Organization
	}
	if update.IsActive != nil {
		account.IsActive = *update.IsActive
	}
	s.accountsByID[accountID] = account
	return nil
}

func (s *Store) AddGrant(_ context.Context, accountID string, resourceType string, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grants, ok := s.grantsByID[accountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	if resourceType == ports.ResourceTypeProject {
		grants.projects[resourceID] = struct{}{}
	} else {
		grants.worksites[resourceID] = struct{}{}
	}
	return nil
}

func (s *Store) RemoveGrant(_ context.Context, accountID string, resourceType string, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grants, ok := s.grantsByID[accountID]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	if resourceType == ports.ResourceTypeProject {
		delete(grants.projects, resourceID)
	} else {
		delete(grants.worksites, resourceID)
	}
	return nil
}

func (s *Store) ListGrants(_ context.Context, username string) ([]string, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByUsername[strings.ToLower(username)]
	if !ok {
		return nil, nil, domainerrors.ErrAccountNotFound
	}
	grants := s.grantsByID[id]
	return sortedKeys(grants.projects), sortedKeys(grants.worksites), nil
}

// SeedSuperuser inserts a ready-made superuser for tests and local
// development.
func (s *Store) SeedSuperuser(account entities.Account) {
	account.IsActive = true
	account.IsSuperuser = true
	_ = s.Create(context.Background(), account)
}

func (s *Store) withGrants(account entities.Account) entities.Account {
	grants := s.grantsByID[account.ID]
	account.ProjectIDs = sortedKeys(grants.projects)
	account.WorksiteIDs = sortedKeys(grants.worksites)
	return account
}

func sortedKeys(set map[string]struct{}) []string {
	items := make([]string, 0, len(set))
	for key := range set {
		items = append(items, key)
	}
	sort.Strings(items)
	return items
}
