package domain

// AnonymousIdentity is the marker used for callers with no resolved
// principal. Policy rules may reference it as a subject.
const AnonymousIdentity = "anonymous"

// ResolutionReason names the branch that produced a Resolution.
// Failure-to-anonymous is a visible branch, not a swallowed error.
type ResolutionReason string

const (
	ReasonResolved            ResolutionReason = "resolved"
	ReasonNoCredential        ResolutionReason = "no_credential"
	ReasonMalformedCredential ResolutionReason = "malformed_credential"
	ReasonVerificationFailed  ResolutionReason = "verification_failed"
	ReasonVerifierError       ResolutionReason = "verifier_error"
)

// Resolution is the per-request outcome of credential resolution.
// Computed once per request, never persisted.
type Resolution struct {
	Username string
	Reason   ResolutionReason
}

func Resolved(username string) Resolution {
	return Resolution{Username: username, Reason: ReasonResolved}
}

func Anonymous(reason ResolutionReason) Resolution {
	return Resolution{Reason: reason}
}

// Identity returns the subject used for policy evaluation: the resolved
// username, or the anonymous marker.
func (r Resolution) Identity() string {
	if r.Reason == ReasonResolved && r.Username != "" {
		return r.Username
	}
	return AnonymousIdentity
}

func (r Resolution) IsAnonymous() bool {
	return r.Reason != ReasonResolved || r.Username == ""
}

// Decision is the access decision for one (identity, path, method)
// evaluation. Computed fresh per request; not cached.
type Decision struct {
	Allowed  bool
	Identity string
	Path     string
	Method   string
	Reason   string
}

const (
	DecisionPolicyAllowed    = "policy_allowed"
	DecisionOwnershipAllowed = "ownership_allowed"
	DecisionPolicyDenied     = "policy_denied"
	DecisionEngineError      = "engine_error"
)
