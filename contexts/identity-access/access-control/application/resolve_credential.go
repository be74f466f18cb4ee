package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sitesense/contexts/identity-access/access-control/domain"
	domainerrors "sitesense/contexts/identity-access/access-control/domain/errors"
	"sitesense/contexts/identity-access/access-control/ports"
)

const bearerPrefix = "Bearer "

// ResolveCredentialUseCase turns an Authorization header into a
// Resolution. It never rejects a request: every failure branch
// downgrades to anonymous with an explicit reason.
type ResolveCredentialUseCase struct {
	Verifier ports.TokenVerifier
	Logger   *slog.Logger
}

func (u ResolveCredentialUseCase) Execute(ctx context.Context, authorizationHeader string) domain.Resolution {
	logger := resolveLogger(u.Logger)

	if authorizationHeader == "" {
		return domain.Anonymous(domain.ReasonNoCredential)
	}
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return domain.Anonymous(domain.ReasonMalformedCredential)
	}
	token := authorizationHeader[len(bearerPrefix):]
	if token == "" {
		return domain.Anonymous(domain.ReasonMalformedCredential)
	}

	principal, err := u.Verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTokenInvalid) || errors.Is(err, domainerrors.ErrPrincipalNotFound) {
			logger.Debug("credential verification failed",
				"event", "authn_verification_failed",
				"module", "identity-access/access-control",
				"layer", "application",
			)
			return domain.Anonymous(domain.ReasonVerificationFailed)
		}
		// Verifier-backend outage. Policy evaluation continues at
		// anonymous level rather than failing the request.
		logger.Error("credential verifier unavailable, caller treated as anonymous",
			"event", "authn_verifier_error",
			"module", "identity-access/access-control",
			"layer", "application",
			"error", err.Error(),
		)
		return domain.Anonymous(domain.ReasonVerifierError)
	}
	if strings.TrimSpace(principal.Username) == "" {
		return domain.Anonymous(domain.ReasonVerificationFailed)
	}
	return domain.Resolved(principal.Username)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
