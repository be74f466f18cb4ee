package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	bcryptadapter "sitesense/contexts/identity-access/account-service/adapters/bcrypt"
	jwtadapter "sitesense/contexts/identity-access/account-service/adapters/jwt"
	"sitesense/contexts/identity-access/account-service/adapters/memory"
	"sitesense/contexts/identity-access/account-service/domain/entities"
	domainerrors "sitesense/contexts/identity-access/account-service/domain/errors"
	"sitesense/contexts/identity-access/account-service/ports"
)

type recordingPolicy struct {
	added    [][3]string
	removed  [][3]string
	linked   [][2]string
	unlinked [][2]string
}

func (p *recordingPolicy) AddRule(_ context.Context, subject, object, action string) error {
	p.added = append(p.added, [3]string{subject, object, action})
	return nil
}

func (p *recordingPolicy) RemoveRule(_ context.Context, subject, object, action string) error {
	p.removed = append(p.removed, [3]string{subject, object, action})
	return nil
}

func (p *recordingPolicy) AddRoleLink(_ context.Context, subject, role string) error {
	p.linked = append(p.linked, [2]string{subject, role})
	return nil
}

func (p *recordingPolicy) RemoveRoleLink(_ context.Context, subject, role string) error {
	p.unlinked = append(p.unlinked, [2]string{subject, role})
	return nil
}

type staticRegistry struct {
	projects  map[string]bool
	worksites map[string]bool
}

func (r staticRegistry) ProjectExists(_ context.Context, projectID string) (bool, error) {
	return r.projects[projectID], nil
}

func (r staticRegistry) WorksiteExists(_ context.Context, worksiteID string) (bool, error) {
	return r.worksites[worksiteID], nil
}

func newTestService(t *testing.T) (Service, *memory.Store, *recordingPolicy) {
	t.Helper()
	store := memory.NewStore()
	tokens, err := jwtadapter.NewStrategy("test-secret", time.Hour, store)
	if err != nil {
		t.Fatalf("token strategy: %v", err)
	}
	policy := &recordingPolicy{}
	service := Service{
		Repo:   store,
		Hasher: bcryptadapter.Hasher{Cost: bcrypt.MinCost},
		Tokens: tokens,
		Policy: policy,
		Registry: staticRegistry{
			projects:  map[string]bool{"proj-1": true},
			worksites: map[string]bool{"site-1": true},
		},
		Clock: store,
		IDs:   store,
	}
	return service, store, policy
}

func seedSuperuser(t *testing.T, store *memory.Store) {
	t.Helper()
	store.SeedSuperuser(entities.Account{
		ID:       "admin-id",
		Username: "admin",
		Email:    "admin@example.com",
		Role:     "sadmin",
	})
}

func TestRegisterAssignsDefaults(t *testing.T) {
	service, _, _ := newTestService(t)

	account, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if account.Role != entities.DefaultRole {
		t.Fatalf("expected default role %q, got %q", entities.DefaultRole, account.Role)
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", account.Email)
	}
	if !account.IsActive {
		t.Fatal("expected new account to be active")
	}
	if account.PasswordHash != "" {
		t.Fatal("expected password hash stripped from response")
	}
}

func TestRegisterLinksDefaultRole(t *testing.T) {
	service, _, policy := newTestService(t)

	if _, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Role-level policy rules only reach an account through its
	// grouping row, so registration must write one.
	want := [2]string{"alice", entities.DefaultRole}
	if len(policy.linked) != 1 || policy.linked[0] != want {
		t.Fatalf("expected role link %v, got %v", want, policy.linked)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	service, _, _ := newTestService(t)

	cases := []RegisterInput{
		{Username: "", Email: "a@b.c", Password: "longenough"},
		{Username: "alice", Email: "not-an-email", Password: "longenough"},
		{Username: "alice", Email: "a@b.c", Password: "short"},
		{Username: "this-username-is-far-too-long", Email: "a@b.c", Password: "longenough"},
	}
	for _, input := range cases {
		if _, err := service.Register(context.Background(), input); !errors.Is(err, domainerrors.ErrInvalidRegistration) {
			t.Fatalf("expected invalid registration for %+v, got %v", input, err)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _, _ := newTestService(t)

	input := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "longenough"}
	if _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	input.Email = "other@example.com"
	if _, err := service.Register(context.Background(), input); !errors.Is(err, domainerrors.ErrUsernameExists) {
		t.Fatalf("expected username exists, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	service, _, _ := newTestService(t)

	if _, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := service.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", token.TokenType)
	}

	account, err := service.VerifyToken(context.Background(), token.AccessToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if account.Username != "alice" {
		t.Fatalf("expected alice, got %q", account.Username)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, _ := newTestService(t)

	if _, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := service.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	_, err = service.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.VerifyToken(context.Background(), "not-a-token")
	if !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestListRequiresSuperuser(t *testing.T) {
	service, store, _ := newTestService(t)
	seedSuperuser(t, store)

	if _, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := service.List(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required, got %v", err)
	}

	accounts, err := service.List(context.Background(), "admin")
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
}

func TestSetRoleReportsChange(t *testing.T) {
	service, store, _ := newTestService(t)
	seedSuperuser(t, store)

	account, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	changed, err := service.SetRole(context.Background(), "admin", SetRoleInput{AccountID: account.ID, Role: "padmin"})
	if err != nil {
		t.Fatalf("set role failed: %v", err)
	}
	if !changed {
		t.Fatal("expected role change to report changed")
	}

	changed, err = service.SetRole(context.Background(), "admin", SetRoleInput{AccountID: account.ID, Role: "padmin"})
	if err != nil {
		t.Fatalf("repeat set role failed: %v", err)
	}
	if changed {
		t.Fatal("expected no-op role change to report unchanged")
	}
}

func TestSetRoleReplacesRoleLink(t *testing.T) {
	service, store, policy := newTestService(t)
	seedSuperuser(t, store)

	account, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := service.SetRole(context.Background(), "admin", SetRoleInput{AccountID: account.ID, Role: "padmin"}); err != nil {
		t.Fatalf("set role failed: %v", err)
	}

	if len(policy.unlinked) != 1 || policy.unlinked[0] != [2]string{"alice", entities.DefaultRole} {
		t.Fatalf("expected old role link removed, got %v", policy.unlinked)
	}
	last := policy.linked[len(policy.linked)-1]
	if last != [2]string{"alice", "padmin"} {
		t.Fatalf("expected new role link added, got %v", policy.linked)
	}
}

func TestUpdateProfileSelfOrSuperuser(t *testing.T) {
	service, store, _ := newTestService(t)
	seedSuperuser(t, store)

	alice, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register alice failed: %v", err)
	}
	if _, err := service.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register bob failed: %v", err)
	}

	organization := "northside"
	updated, err := service.Update(context.Background(), "alice", alice.ID, UpdateAccountInput{Organization: &organization})
	if err != nil {
		t.Fatalf("self update failed: %v", err)
	}
	if updated.Organization != "northside" {
		t.Fatalf("organization = %q, want %q", updated.Organization, "northside")
	}

	if _, err := service.Update(context.Background(), "bob", alice.ID, UpdateAccountInput{Organization: &organization}); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required for foreign update, got %v", err)
	}

	email := "alice@northside.example"
	updated, err = service.Update(context.Background(), "admin", alice.ID, UpdateAccountInput{Email: &email})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("email = %q, want %q", updated.Email, email)
	}

	bad := "not-an-email"
	if _, err := service.Update(context.Background(), "alice", alice.ID, UpdateAccountInput{Email: &bad}); !errors.Is(err, domainerrors.ErrInvalidRegistration) {
		t.Fatalf("expected invalid registration for bad email, got %v", err)
	}
}

func TestUpdateChangesPassword(t *testing.T) {
	service, _, _ := newTestService(t)

	alice, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	password := "battery-staple"
	if _, err := service.Update(context.Background(), "alice", alice.ID, UpdateAccountInput{Password: &password}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := service.Login(context.Background(), "alice", "correct-horse"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := service.Login(context.Background(), "alice", password); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestDeactivateBlocksLoginAndTokens(t *testing.T) {
	service, store, _ := newTestService(t)
	seedSuperuser(t, store)

	alice, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := service.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := service.Deactivate(context.Background(), "alice", alice.ID); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required for self deactivate, got %v", err)
	}
	if err := service.Deactivate(context.Background(), "admin", alice.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := service.Login(context.Background(), "alice", "correct-horse"); !errors.Is(err, domainerrors.ErrAccountInactive) {
		t.Fatalf("expected inactive on login, got %v", err)
	}
	if _, err := service.VerifyToken(context.Background(), token.AccessToken); !errors.Is(err, domainerrors.ErrAccountInactive) {
		t.Fatalf("expected inactive on token verify, got %v", err)
	}
}

func TestSetAccessWritesPolicyRules(t *testing.T) {
	service, store, policy := newTestService(t)
	seedSuperuser(t, store)

	account, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err = service.SetAccess(context.Background(), "admin", ports.AccessMutation{
		AccountID:    account.ID,
		ResourceType: ports.ResourceTypeProject,
		ResourceIDs:  []string{"proj-1"},
		Access:       ports.AccessAllow,
	})
	if err != nil {
		t.Fatalf("set access failed: %v", err)
	}
	if len(policy.added) != 1 {
		t.Fatalf("expected 1 policy rule, got %d", len(policy.added))
	}
	rule := policy.added[0]
	if rule[0] != "alice" || rule[1] != "/projects/proj-1*" || rule[2] != "*" {
		t.Fatalf("unexpected policy rule %v", rule)
	}

	projects, _, err := store.ListGrants(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list grants failed: %v", err)
	}
	if len(projects) != 1 || projects[0] != "proj-1" {
		t.Fatalf("unexpected project grants %v", projects)
	}

	err = service.SetAccess(context.Background(), "admin", ports.AccessMutation{
		AccountID:    account.ID,
		ResourceType: ports.ResourceTypeProject,
		ResourceIDs:  []string{"proj-1"},
		Access:       ports.AccessDeny,
	})
	if err != nil {
		t.Fatalf("revoke access failed: %v", err)
	}
	if len(policy.removed) != 1 {
		t.Fatalf("expected 1 removed rule, got %d", len(policy.removed))
	}
	projects, _, _ = store.ListGrants(context.Background(), "alice")
	if len(projects) != 0 {
		t.Fatalf("expected no project grants, got %v", projects)
	}
}

func TestSetAccessRejectsUnknownResource(t *testing.T) {
	service, store, _ := newTestService(t)
	seedSuperuser(t, store)

	account, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err = service.SetAccess(context.Background(), "admin", ports.AccessMutation{
		AccountID:    account.ID,
		ResourceType: ports.ResourceTypeProject,
		ResourceIDs:  []string{"missing"},
		Access:       ports.AccessAllow,
	})
	if !errors.Is(err, domainerrors.ErrResourceNotFound) {
		t.Fatalf("expected resource not found, got %v", err)
	}

	err = service.SetAccess(context.Background(), "admin", ports.AccessMutation{
		AccountID:    account.ID,
		ResourceType: "zone",
		ResourceIDs:  []string{"z1"},
		Access:       ports.AccessAllow,
	})
	if !errors.Is(err, domainerrors.ErrInvalidResourceType) {
		t.Fatalf("expected invalid resource type, got %v", err)
	}
}
