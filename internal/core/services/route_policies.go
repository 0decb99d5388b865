package services

import (
	"strings"

	"room-scheduler/internal/core/domain"
)

// PolicyKind selects how a RoutePolicy restricts roles
type PolicyKind int

const (
	// PolicyUnrestricted admits any authenticated subject
	PolicyUnrestricted PolicyKind = iota
	// PolicyRequiredRole admits exactly one role
	PolicyRequiredRole
	// PolicyAllowedRoles admits any role from a set
	PolicyAllowedRoles
)

// RoutePolicy is the static role restriction attached to a route
type RoutePolicy struct {
	Kind  PolicyKind
	Roles []domain.Role
}

// Unrestricted returns a policy that only requires a usable credential
func Unrestricted() RoutePolicy {
	return RoutePolicy{Kind: PolicyUnrestricted}
}

// RequireRole returns a policy admitting only role
func RequireRole(role domain.Role) RoutePolicy {
	return RoutePolicy{Kind: PolicyRequiredRole, Roles: []domain.Role{role}}
}

// AllowRoles returns a policy admitting any of roles
func AllowRoles(roles ...domain.Role) RoutePolicy {
	return RoutePolicy{Kind: PolicyAllowedRoles, Roles: roles}
}

// Restricted reports whether the policy names roles at all
func (p RoutePolicy) Restricted() bool {
	return p.Kind != PolicyUnrestricted && len(p.Roles) > 0
}

// Permits reports whether role may pass the policy
func (p RoutePolicy) Permits(role domain.Role) bool {
	if !p.Restricted() {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RouteRule binds a path pattern to a policy. Pattern segments starting
// with ":" match any single segment.
type RouteRule struct {
	Pattern string
	Public  bool
	Policy  RoutePolicy
}

// RoutePolicyTable resolves request paths to their static policy
type RoutePolicyTable struct {
	rules []RouteRule
}

// NewRoutePolicyTable builds a table; earlier rules win on overlap
func NewRoutePolicyTable(rules ...RouteRule) *RoutePolicyTable {
	return &RoutePolicyTable{rules: rules}
}

// DashboardRoutes is the route table of the scheduling dashboard
func DashboardRoutes() *RoutePolicyTable {
	adminOnly := RequireRole(domain.RoleAdmin)
	staff := AllowRoles(domain.RoleAdmin, domain.RoleLecturer)

	return NewRoutePolicyTable(
		RouteRule{Pattern: "/login", Public: true},
		RouteRule{Pattern: "/register", Public: true},

		RouteRule{Pattern: "/home", Policy: adminOnly},
		RouteRule{Pattern: "/schedule", Policy: adminOnly},
		RouteRule{Pattern: "/conflict", Policy: adminOnly},
		RouteRule{Pattern: "/rooms", Policy: adminOnly},
		RouteRule{Pattern: "/lecturer", Policy: adminOnly},
		RouteRule{Pattern: "/fixed", Policy: adminOnly},

		RouteRule{Pattern: "/schedule/calendar", Policy: staff},
		RouteRule{Pattern: "/schedule/calendar/:major", Policy: staff},

		RouteRule{Pattern: "/profile", Policy: Unrestricted()},
	)
}

// Rules returns the table's rules in order
func (t *RoutePolicyTable) Rules() []RouteRule {
	return append([]RouteRule(nil), t.rules...)
}

// Reachable reports whether role is allowed on path without a redirect.
// The root path and unknown paths always redirect.
func (t *RoutePolicyTable) Reachable(role domain.Role, path string) bool {
	rule, found := t.Lookup(path)
	return found && (rule.Public || rule.Policy.Permits(role))
}

// Lookup finds the rule matching path. The root path never matches.
func (t *RoutePolicyTable) Lookup(path string) (RouteRule, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return RouteRule{}, false
	}

	for _, rule := range t.rules {
		if matchSegments(splitPath(rule.Pattern), segments) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

func splitPath(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}
