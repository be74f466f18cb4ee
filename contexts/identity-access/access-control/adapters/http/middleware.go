package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"

	"sitesense/contexts/identity-access/access-control/application"
	"sitesense/contexts/identity-access/access-control/domain"
)

// rejectionBody is the fixed JSON body returned on deny.
const rejectionBody = "Forbidden"

type resolutionContextKey struct{}

// WithResolution stores the per-request identity resolution on the
// request context.
func WithResolution(ctx context.Context, resolution domain.Resolution) context.Context {
	return context.WithValue(ctx, resolutionContextKey{}, resolution)
}

// ResolutionFromContext reads the identity resolution back. The second
// return value is false when the authenticate stage never ran.
func ResolutionFromContext(ctx context.Context) (domain.Resolution, bool) {
	resolution, ok := ctx.Value(resolutionContextKey{}).(domain.Resolution)
	return resolution, ok
}

// Authenticate annotates every request with an identity resolution.
// It never rejects; rejection is the authorize stage's job.
func Authenticate(resolver application.ResolveCredentialUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolution := resolver.Execute(r.Context(), r.Header.Get("Authorization"))
			next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), resolution)))
		})
	}
}

// Authorize enforces the rule table on every request except OPTIONS
// preflight. Deny short-circuits with a fixed 403 response. A missing
// resolution (authenticate stage skipped or misordered) degrades to
// anonymous rather than failing the request.
func Authorize(authorizer application.AuthorizeRequestUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			identity := domain.AnonymousIdentity
			if resolution, ok := ResolutionFromContext(r.Context()); ok {
				identity = resolution.Identity()
			}

			decision := authorizer.Execute(r.Context(), identity, r.URL.Path, r.Method)
			if !decision.Allowed {
				writeRejection(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(rejectionBody)
}
