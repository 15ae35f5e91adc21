package rbac

import (
	"context"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Load(ctx context.Context) error
	Enforce(role, resource, action string) (bool, error)
	Permissions(role string) ([]Policy, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService wraps enforcer. repo may be nil, in which case only the
// default policies apply.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

// Load replaces the enforcer policy with the defaults plus any stored
// grants.
func (s *service) Load(ctx context.Context) error {
	var stored []RolePermission
	if s.repo != nil {
		rows, err := s.repo.ListRolePermissions(ctx)
		if err != nil {
			s.logger.Error("rbac load stored permissions failed", zap.Error(err))
			return err
		}
		stored = rows
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	for _, p := range DefaultPolicies {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}
	for role, parent := range DefaultInheritance {
		if _, err := s.enforcer.AddGroupingPolicy(role, parent); err != nil {
			return err
		}
	}
	for _, p := range stored {
		// AddPolicy reports false for a duplicate of a default; that is fine.
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded",
		zap.Int("default_policies", len(DefaultPolicies)),
		zap.Int("stored_policies", len(stored)),
	)
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role string) ([]Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, err
	}

	out := make([]Policy, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		out = append(out, Policy{Role: role, Resource: row[1], Action: row[2]})
	}
	return out, nil
}
