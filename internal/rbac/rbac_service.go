package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources and actions gated by role.
const (
	ResourceAttendance = "attendance"
	ResourceExcuse     = "excuse"
	ResourceSync       = "sync"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionReview = "review"
	ActionRun    = "run"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the full permission table. Roles are fixed (admin, executive)
// so the policy set is static rather than loaded from storage.
var policies = [][]string{
	{"executive", ResourceAttendance, ActionRead},
	{"executive", ResourceAttendance, ActionCreate},
	{"executive", ResourceExcuse, ActionRead},
	{"executive", ResourceExcuse, ActionCreate},
	{"executive", ResourceSync, ActionRun},
	{"admin", ResourceExcuse, ActionReview},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	// admin inherits everything executive can do.
	if _, err := enforcer.AddGroupingPolicy("admin", "executive"); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
