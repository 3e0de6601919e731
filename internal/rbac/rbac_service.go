package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

// Roles carried in the access token. There is no per-company role table;
// the matrix below is the whole policy.
const (
	RoleWorker  = "worker"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type EnforceRequest struct {
	WorkerID  string
	CompanyID string
	Role      string
	Resource  string
	Action    string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

// policyMatrix maps role -> resource -> allowed actions.
var policyMatrix = map[string]map[string][]string{
	RoleWorker: {
		// Workers may correct their own punches; ownership is enforced
		// by the punch service, not here.
		"punch":     {"read", "create", "edit"},
		"timesheet": {"read"},
		"timeoff":   {"read", "create"},
	},
	RoleManager: {
		"punch":     {"read", "create", "edit", "approve"},
		"timesheet": {"read"},
		"timeoff":   {"read", "create", "approve"},
	},
	RoleAdmin: {
		"*": {"*"},
	},
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for role, resources := range policyMatrix {
		for resource, actions := range resources {
			for _, action := range actions {
				if _, err := enforcer.AddPolicy(role, resource, action); err != nil {
					return nil, err
				}
			}
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("worker_id", req.WorkerID),
		zap.String("company_id", req.CompanyID),
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
