package httpadapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitesense/contexts/identity-access/access-control/application"
	"sitesense/contexts/identity-access/access-control/domain"
	domainerrors "sitesense/contexts/identity-access/access-control/domain/errors"
	accesscontrolports "sitesense/contexts/identity-access/access-control/ports"
)

type tableVerifier map[string]accesscontrolports.Principal

func (v tableVerifier) Verify(_ context.Context, token string) (accesscontrolports.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return accesscontrolports.Principal{}, domainerrors.ErrTokenInvalid
	}
	return principal, nil
}

type allowListRules map[string]bool

func (r allowListRules) Enforce(_ context.Context, subject, object, action string) (bool, error) {
	return r[subject+" "+object+" "+action], nil
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func pipeline(verifier accesscontrolports.TokenVerifier, rules accesscontrolports.RuleEngine, next http.Handler) http.Handler {
	authenticate := Authenticate(application.ResolveCredentialUseCase{Verifier: verifier})
	authorize := Authorize(application.AuthorizeRequestUseCase{Rules: rules})
	return authenticate(authorize(next))
}

func TestPipelineAllowsPermittedRequest(t *testing.T) {
	var hit bool
	handler := pipeline(
		tableVerifier{"tok-alice": {ID: "id-1", Username: "alice"}},
		allowListRules{"alice /projects GET": true},
		okHandler(&hit),
	)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !hit {
		t.Fatal("expected inner handler to run")
	}
}

func TestPipelineDeniesWithFixedBody(t *testing.T) {
	var hit bool
	handler := pipeline(
		tableVerifier{"tok-alice": {ID: "id-1", Username: "alice"}},
		allowListRules{},
		okHandler(&hit),
	)

	req := httptest.NewRequest(http.MethodDelete, "/projects/p1", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if hit {
		t.Fatal("inner handler must not run on deny")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `"Forbidden"` {
		t.Fatalf("expected fixed rejection body, got %q", body)
	}
}

func TestPipelineOptionsBypassesAuthorization(t *testing.T) {
	var hit bool
	handler := pipeline(tableVerifier{}, allowListRules{}, okHandler(&hit))

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for OPTIONS, got %d", rec.Code)
	}
	if !hit {
		t.Fatal("expected OPTIONS to reach inner handler")
	}
}

func TestPipelineAnonymousWithoutCredential(t *testing.T) {
	var hit bool
	handler := pipeline(
		tableVerifier{},
		allowListRules{"anonymous /auth/login POST": true},
		okHandler(&hit),
	)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous rule to allow login, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected anonymous deny on protected path, got %d", rec.Code)
	}
}

func TestPipelineInvalidTokenFoldsToAnonymous(t *testing.T) {
	var hit bool
	handler := pipeline(
		tableVerifier{"tok-alice": {ID: "id-1", Username: "alice"}},
		allowListRules{"alice /projects GET": true},
		okHandler(&hit),
	)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected forged token to evaluate as anonymous and deny, got %d", rec.Code)
	}
}

func TestPipelineIsIdempotentPerRequest(t *testing.T) {
	var hit bool
	handler := pipeline(
		tableVerifier{"tok-alice": {ID: "id-1", Username: "alice"}},
		allowListRules{"alice /projects GET": true},
		okHandler(&hit),
	)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Authorization", "Bearer tok-alice")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestAuthorizeWithoutResolutionDegradesToAnonymous(t *testing.T) {
	var hit bool
	authorize := Authorize(application.AuthorizeRequestUseCase{
		Rules: allowListRules{"anonymous /open GET": true},
	})
	handler := authorize(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected anonymous evaluation without resolution, got %d", rec.Code)
	}
}

func TestResolutionContextRoundTrip(t *testing.T) {
	ctx := WithResolution(context.Background(), domain.Resolved("alice"))
	resolution, ok := ResolutionFromContext(ctx)
	if !ok {
		t.Fatal("expected resolution in context")
	}
	if resolution.Identity() != "alice" {
		t.Fatalf("expected alice, got %q", resolution.Identity())
	}

	if _, ok := ResolutionFromContext(context.Background()); ok {
		t.Fatal("expected no resolution on empty context")
	}
}
