package services

import (
	"strings"

	"bankloan-web/internal/core/domain"
)

// Client routes
const (
	RouteHome              = "/"
	RouteLogin             = "/login/:role"
	RouteProviderDashboard = "/ProviderDashboard"
	RouteCustomerDashboard = "/CustomerDashboard"
	RouteEmployeeDashboard = "/EmployeeDashboard"
)

var dashboards = map[domain.Role]string{
	domain.RoleProvider: RouteProviderDashboard,
	domain.RoleCustomer: RouteCustomerDashboard,
	domain.RoleEmployee: RouteEmployeeDashboard,
}

// AuthState is the route guard's view of a session
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticated
	// StateInvalid is transient: a token that failed to decode. It is never
	// kept; the store collapses it to StateAnonymous immediately.
	StateInvalid
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateInvalid:
		return "INVALID"
	default:
		return "ANONYMOUS"
	}
}

// StateOf classifies a session
func StateOf(sess domain.Session) AuthState {
	switch {
	case sess.IsAuthenticated():
		return StateAuthenticated
	case sess.Token != "":
		return StateInvalid
	default:
		return StateAnonymous
	}
}

// Decision is the outcome of a guard check
type Decision struct {
	Admit    bool
	Redirect string
}

// RouteGuard decides whether a session may view a route
type RouteGuard struct {
	enforceRole bool
}

// NewRouteGuard creates a route guard. With enforceRole false any
// authenticated role may open any dashboard; the API still rejects calls
// made with the wrong role.
func NewRouteGuard(enforceRole bool) *RouteGuard {
	return &RouteGuard{enforceRole: enforceRole}
}

// Check admits non-dashboard paths unconditionally and dashboard paths
// only for authenticated sessions.
func (g *RouteGuard) Check(sess domain.Session, path string) Decision {
	required, ok := DashboardRole(path)
	if !ok {
		return Decision{Admit: true}
	}
	if StateOf(sess) != StateAuthenticated {
		return Decision{Redirect: RouteHome}
	}
	if g.enforceRole && sess.Role != required {
		return Decision{Redirect: DashboardFor(string(sess.Role))}
	}
	return Decision{Admit: true}
}

// DashboardFor returns the dashboard route for a role name, or the home
// route for anything unrecognised.
func DashboardFor(role string) string {
	r, ok := domain.ParseRole(role)
	if !ok {
		return RouteHome
	}
	return dashboards[r]
}

// DashboardRole reports which role's dashboard path belongs to, including
// the dashboard's sub-routes.
func DashboardRole(path string) (domain.Role, bool) {
	first := strings.Trim(path, "/")
	if i := strings.IndexByte(first, '/'); i >= 0 {
		first = first[:i]
	}
	for role, route := range dashboards {
		if strings.EqualFold(first, strings.TrimPrefix(route, "/")) {
			return role, true
		}
	}
	return "", false
}
