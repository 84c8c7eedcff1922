package authz

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
)

// Roles asserted by the gateway in X-User-Role.
const (
	RoleCustomer = "Customer"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy grants a role one method on a route pattern relative to the base path.
type Policy struct {
	Role   string
	Path   string
	Method string
}

// DefaultPolicies is the route table of the cart and catalog API.
func DefaultPolicies() []Policy {
	customerOnly := []Policy{
		{RoleCustomer, "/carts", http.MethodGet},
		{RoleCustomer, "/carts", http.MethodPost},
		{RoleCustomer, "/carts", http.MethodPatch},
		{RoleCustomer, "/carts/history", http.MethodGet},
		{RoleCustomer, "/carts/products/:model", http.MethodDelete},
		{RoleCustomer, "/carts/current", http.MethodDelete},
	}
	policies := append([]Policy{}, customerOnly...)
	for _, role := range []string{RoleAdmin, RoleManager} {
		policies = append(policies,
			Policy{role, "/carts", http.MethodDelete},
			Policy{role, "/carts/all", http.MethodGet},
		)
	}
	for _, role := range Roles() {
		policies = append(policies,
			Policy{role, "/products", http.MethodGet},
			Policy{role, "/products/:model", http.MethodGet},
		)
	}
	return policies
}

func Roles() []string {
	return []string{RoleCustomer, RoleManager, RoleAdmin}
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// Service decides route access by role.
type Service struct {
	enforcer *casbin.SyncedEnforcer
	basePath string
}

// NewService loads policies under basePath.
func NewService(basePath string, policies []Policy) (*Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	basePath = strings.TrimRight(basePath, "/")
	rules := make([][]string, 0, len(policies))
	for _, p := range policies {
		rules = append(rules, []string{p.Role, basePath + p.Path, strings.ToUpper(p.Method)})
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("add authz policies: %w", err)
		}
	}
	return &Service{enforcer: enforcer, basePath: basePath}, nil
}

// Enforce reports whether role may call method on path.
func (s *Service) Enforce(role, path, method string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(role), path, strings.ToUpper(method))
}
