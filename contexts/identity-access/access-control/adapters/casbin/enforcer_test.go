package casbinadapter

import (
	"context"
	"errors"
	"testing"

	domainerrors "sitesense/contexts/identity-access/access-control/domain/errors"
)

func TestEnforcerLoadFailureIsSentinel(t *testing.T) {
	_, err := NewEnforcerFromFiles("no-such-model.conf", "no-such-policy.csv", nil)
	if !errors.Is(err, domainerrors.ErrPolicyLoad) {
		t.Fatalf("expected policy load sentinel, got %v", err)
	}
}

func TestEnforcerRoleLinkMutation(t *testing.T) {
	enforcer, err := NewEnforcerFromRules([][]string{
		{"p", "wadmin", "/users/me", "GET"},
	}, nil)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}
	ctx := context.Background()

	allowed, err := enforcer.Enforce(ctx, "bob", "/users/me", "GET")
	if err != nil || allowed {
		t.Fatalf("expected deny before link, got allowed=%v err=%v", allowed, err)
	}

	if err := enforcer.AddRoleLink(ctx, "bob", "wadmin"); err != nil {
		t.Fatalf("add role link: %v", err)
	}
	allowed, err = enforcer.Enforce(ctx, "bob", "/users/me", "GET")
	if err != nil || !allowed {
		t.Fatalf("expected allow after link, got allowed=%v err=%v", allowed, err)
	}

	if err := enforcer.RemoveRoleLink(ctx, "bob", "wadmin"); err != nil {
		t.Fatalf("remove role link: %v", err)
	}
	allowed, err = enforcer.Enforce(ctx, "bob", "/users/me", "GET")
	if err != nil || allowed {
		t.Fatalf("expected deny after unlink, got allowed=%v err=%v", allowed, err)
	}
}

func TestEnforcerKeyMatchPatterns(t *testing.T) {
	enforcer, err := NewEnforcerFromRules([][]string{
		{"p", "anonymous", "/auth/*", "POST"},
		{"p", "alice", "/projects/proj-1*", "*"},
	}, nil)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}

	cases := []struct {
		subject string
		object  string
		action  string
		allow   bool
	}{
		{"anonymous", "/auth/login", "POST", true},
		{"anonymous", "/auth/login", "GET", false},
		{"anonymous", "/projects", "GET", false},
		{"alice", "/projects/proj-1", "GET", true},
		{"alice", "/projects/proj-1", "DELETE", true},
		{"alice", "/projects/proj-1/worksites", "GET", true},
		{"alice", "/projects/proj-2", "GET", false},
		{"bob", "/projects/proj-1", "GET", false},
	}
	for _, tc := range cases {
		allowed, err := enforcer.Enforce(context.Background(), tc.subject, tc.object, tc.action)
		if err != nil {
			t.Fatalf("enforce (%s, %s, %s): %v", tc.subject, tc.object, tc.action, err)
		}
		if allowed != tc.allow {
			t.Fatalf("enforce (%s, %s, %s) = %v, want %v", tc.subject, tc.object, tc.action, allowed, tc.allow)
		}
	}
}

func TestEnforcerRoleLinks(t *testing.T) {
	enforcer, err := NewEnforcerFromRules([][]string{
		{"p", "sadmin", "/*", "*"},
		{"g", "root", "sadmin"},
	}, nil)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}

	allowed, err := enforcer.Enforce(context.Background(), "root", "/users", "GET")
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if !allowed {
		t.Fatal("expected role link to grant access")
	}
}

func TestEnforcerRuleMutation(t *testing.T) {
	enforcer, err := NewEnforcerFromRules(nil, nil)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}

	if allowed, _ := enforcer.Enforce(context.Background(), "alice", "/projects/p1", "GET"); allowed {
		t.Fatal("expected deny before rule added")
	}
	if err := enforcer.AddRule(context.Background(), "alice", "/projects/p1*", "*"); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if allowed, _ := enforcer.Enforce(context.Background(), "alice", "/projects/p1", "GET"); !allowed {
		t.Fatal("expected allow after rule added")
	}
	if err := enforcer.RemoveRule(context.Background(), "alice", "/projects/p1*", "*"); err != nil {
		t.Fatalf("remove rule: %v", err)
	}
	if allowed, _ := enforcer.Enforce(context.Background(), "alice", "/projects/p1", "GET"); allowed {
		t.Fatal("expected deny after rule removed")
	}
}
