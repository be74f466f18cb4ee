package application

import (
	"context"
	"errors"
	"testing"

	"sitesense/contexts/identity-access/access-control/domain"
	domainerrors "sitesense/contexts/identity-access/access-control/domain/errors"
	"sitesense/contexts/identity-access/access-control/ports"
)

type fakeVerifier struct {
	principal ports.Principal
	err       error
}

func (f fakeVerifier) Verify(_ context.Context, _ string) (ports.Principal, error) {
	return f.principal, f.err
}

func TestResolveMissingHeader(t *testing.T) {
	resolver := ResolveCredentialUseCase{Verifier: fakeVerifier{}}

	resolution := resolver.Execute(context.Background(), "")
	if !resolution.IsAnonymous() {
		t.Fatal("expected anonymous resolution")
	}
	if resolution.Reason != domain.ReasonNoCredential {
		t.Fatalf("expected no_credential, got %s", resolution.Reason)
	}
	if resolution.Identity() != domain.AnonymousIdentity {
		t.Fatalf("expected anonymous identity, got %q", resolution.Identity())
	}
}

func TestResolveMalformedHeader(t *testing.T) {
	resolver := ResolveCredentialUseCase{Verifier: fakeVerifier{}}

	for _, header := range []string{"Basic abc123", "bearer lowercase", "Bearer "} {
		resolution := resolver.Execute(context.Background(), header)
		if !resolution.IsAnonymous() {
			t.Fatalf("expected anonymous for header %q", header)
		}
		if resolution.Reason != domain.ReasonMalformedCredential {
			t.Fatalf("expected malformed_credential for %q, got %s", header, resolution.Reason)
		}
	}
}

func TestResolveInvalidToken(t *testing.T) {
	resolver := ResolveCredentialUseCase{
		Verifier: fakeVerifier{err: domainerrors.ErrTokenInvalid},
	}

	resolution := resolver.Execute(context.Background(), "Bearer bogus")
	if !resolution.IsAnonymous() {
		t.Fatal("expected anonymous resolution")
	}
	if resolution.Reason != domain.ReasonVerificationFailed {
		t.Fatalf("expected verification_failed, got %s", resolution.Reason)
	}
}

func TestResolveUnknownPrincipal(t *testing.T) {
	resolver := ResolveCredentialUseCase{
		Verifier: fakeVerifier{err: domainerrors.ErrPrincipalNotFound},
	}

	resolution := resolver.Execute(context.Background(), "Bearer stale")
	if resolution.Reason != domain.ReasonVerificationFailed {
		t.Fatalf("expected verification_failed, got %s", resolution.Reason)
	}
}

func TestResolveVerifierOutageDegradesToAnonymous(t *testing.T) {
	resolver := ResolveCredentialUseCase{
		Verifier: fakeVerifier{err: errors.New("connection refused")},
	}

	resolution := resolver.Execute(context.Background(), "Bearer anything")
	if !resolution.IsAnonymous() {
		t.Fatal("expected anonymous resolution on verifier outage")
	}
	if resolution.Reason != domain.ReasonVerifierError {
		t.Fatalf("expected verifier_error, got %s", resolution.Reason)
	}
}

func TestResolveSuccess(t *testing.T) {
	resolver := ResolveCredentialUseCase{
		Verifier: fakeVerifier{principal: ports.Principal{ID: "id-1", Username: "alice"}},
	}

	resolution := resolver.Execute(context.Background(), "Bearer good-token")
	if resolution.IsAnonymous() {
		t.Fatal("expected resolved identity")
	}
	if resolution.Identity() != "alice" {
		t.Fatalf("expected alice, got %q", resolution.Identity())
	}
	if resolution.Reason != domain.ReasonResolved {
		t.Fatalf("expected resolved reason, got %s", resolution.Reason)
	}
}
