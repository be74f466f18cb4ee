package casbinadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	domainerrors "sitesense/contexts/identity-access/access-control/domain/errors"
)

// DefaultModel is the policy grammar used when no model file is
// configured. Subjects match through role links, objects through
// keyMatch path patterns, and "*" acts as the action wildcard.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Enforcer wraps a synced casbin enforcer behind the access-control
// ports. The rule table is loaded once at construction; the only
// mutation path afterwards is account access grants.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	persist  bool
	logger   *slog.Logger
}

// NewEnforcerFromFiles loads the policy grammar and the concrete rule
// table from disk. Callers treat an error as fatal: the process must
// not serve traffic without a loaded policy.
func NewEnforcerFromFiles(modelPath string, policyPath string, logger *slog.Logger) (*Enforcer, error) {
	enforcer, err := casbin.NewSyncedEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: model %q policy %q: %v", domainerrors.ErrPolicyLoad, modelPath, policyPath, err)
	}
	return &Enforcer{
		enforcer: enforcer,
		persist:  true,
		logger:   resolveLogger(logger),
	}, nil
}

// NewEnforcerFromRules builds an in-memory enforcer from the default
// model and explicit rules. Used by tests and in-memory wiring.
func NewEnforcerFromRules(rules [][]string, logger *slog.Logger) (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(DefaultModel)
	if err != nil {
		return nil, fmt.Errorf("parse default policy model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build enforcer: %w", err)
	}
	for _, rule := range rules {
		if len(rule) == 0 {
			continue
		}
		fields := rule
		kind := "p"
		if rule[0] == "p" || rule[0] == "g" {
			kind = rule[0]
			fields = rule[1:]
		}
		params := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			params = append(params, field)
		}
		var addErr error
		if kind == "g" {
			_, addErr = enforcer.AddGroupingPolicy(params...)
		} else {
			_, addErr = enforcer.AddPolicy(params...)
		}
		if addErr != nil {
			return nil, fmt.Errorf("add policy rule %v: %w", rule, addErr)
		}
	}
	return &Enforcer{
		enforcer: enforcer,
		logger:   resolveLogger(logger),
	}, nil
}

func (e *Enforcer) Enforce(_ context.Context, subject string, object string, action string) (bool, error) {
	return e.enforcer.Enforce(subject, object, action)
}

func (e *Enforcer) AddRule(_ context.Context, subject string, object string, action string) error {
	if _, err := e.enforcer.AddPolicy(subject, object, action); err != nil {
		return fmt.Errorf("add policy rule: %w", err)
	}
	return e.save()
}

func (e *Enforcer) RemoveRule(_ context.Context, subject string, object string, action string) error {
	if _, err := e.enforcer.RemovePolicy(subject, object, action); err != nil {
		return fmt.Errorf("remove policy rule: %w", err)
	}
	return e.save()
}

func (e *Enforcer) AddRoleLink(_ context.Context, subject string, role string) error {
	if _, err := e.enforcer.AddGroupingPolicy(subject, role); err != nil {
		return fmt.Errorf("add role link: %w", err)
	}
	return e.save()
}

func (e *Enforcer) RemoveRoleLink(_ context.Context, subject string, role string) error {
	if _, err := e.enforcer.RemoveGroupingPolicy(subject, role); err != nil {
		return fmt.Errorf("remove role link: %w", err)
	}
	return e.save()
}

func (e *Enforcer) save() error {
	if !e.persist {
		return nil
	}
	if err := e.enforcer.SavePolicy(); err != nil {
		e.logger.Error("policy persist failed",
			"event", "authz_policy_persist_failed",
			"module", "identity-access/access-control",
			"layer", "adapter",
			"error", err.Error(),
		)
		return fmt.Errorf("%w: %v", domainerrors.ErrPolicyPersist, err)
	}
	return nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
