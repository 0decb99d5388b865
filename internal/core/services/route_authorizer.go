package services

import (
	"errors"
	"fmt"
	"time"

	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/pkg/fingerprint"
	"room-scheduler/internal/pkg/jwt"

	"go.uber.org/zap"
)

// LoginPath is where unauthenticated navigations are sent
const LoginPath = "/login"

// CredentialStore holds the credential of the current session
type CredentialStore interface {
	Get() (string, bool)
	Set(credential string)
	Clear()
}

// NavState is the authentication state a navigation was evaluated in
type NavState int

const (
	StateUnauthenticated NavState = iota
	StateAuthenticatedNoRole
	StateAuthenticatedAdmin
	StateAuthenticatedLecturer
)

func (s NavState) String() string {
	switch s {
	case StateAuthenticatedNoRole:
		return "authenticated_no_role"
	case StateAuthenticatedAdmin:
		return "authenticated_admin"
	case StateAuthenticatedLecturer:
		return "authenticated_lecturer"
	default:
		return "unauthenticated"
	}
}

// Outcome of a navigation
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the result of authorizing one navigation
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	State      NavState
	// Purged is set when an unusable credential was removed from the store
	Purged bool
	Claims *domain.ClaimSet
}

// Allowed reports whether the navigation may proceed
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// RoleHomes maps each role to its canonical landing route
type RoleHomes struct {
	homes    map[domain.Role]string
	fallback string
}

// NewRoleHomes builds a mapping; fallback serves roles without an entry
func NewRoleHomes(homes map[domain.Role]string, fallback string) RoleHomes {
	copied := make(map[domain.Role]string, len(homes))
	for role, path := range homes {
		copied[role] = path
	}
	return RoleHomes{homes: copied, fallback: fallback}
}

// DefaultRoleHomes: admin lands on /home, lecturers on the calendar and
// any other role on its profile
func DefaultRoleHomes() RoleHomes {
	return NewRoleHomes(map[domain.Role]string{
		domain.RoleAdmin:    "/home",
		domain.RoleLecturer: "/schedule/calendar",
	}, DefaultFallbackHome)
}

// DefaultFallbackHome is the landing route of roles without a mapping
const DefaultFallbackHome = "/profile"

// ErrUnreachableHome reports a home its own role would be redirected away from
var ErrUnreachableHome = errors.New("role home is not reachable by its role")

// Validate checks every home against table. The fallback is checked for a
// role that has no mapping and no table grants.
func (h RoleHomes) Validate(table *RoutePolicyTable) error {
	for role, path := range h.homes {
		if !table.Reachable(role, path) {
			return fmt.Errorf("%w: %s home %s", ErrUnreachableHome, role, path)
		}
	}
	if !table.Reachable(domain.Role(""), h.fallback) {
		return fmt.Errorf("%w: fallback home %s", ErrUnreachableHome, h.fallback)
	}
	return nil
}

// Home returns the landing route for role
func (h RoleHomes) Home(role domain.Role) string {
	if path, ok := h.homes[role]; ok {
		return path
	}
	return h.fallback
}

// RouteAuthorizer decides, per navigation, whether a route is reachable.
// It keeps no state between calls; expiry is checked against the clock
// every time.
type RouteAuthorizer struct {
	homes  RoleHomes
	now    func() time.Time
	logger *zap.Logger
}

// NewRouteAuthorizer creates a new route authorizer
func NewRouteAuthorizer(homes RoleHomes, now func() time.Time, logger *zap.Logger) *RouteAuthorizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteAuthorizer{
		homes:  homes,
		now:    now,
		logger: logger,
	}
}

// Homes returns the role-home mapping in use
func (a *RouteAuthorizer) Homes() RoleHomes {
	return a.homes
}

// Authorize evaluates policy against the credential held by store
func (a *RouteAuthorizer) Authorize(store CredentialStore, policy RoutePolicy) Decision {
	claims, decision, ok := a.authenticate(store)
	if !ok {
		return decision
	}

	role := claims.Role()
	if policy.Permits(role) {
		return allow(decision)
	}

	return redirect(decision, a.homes.Home(role))
}

// AuthorizePath resolves path in table and evaluates it. The root path and
// paths missing from the table send authenticated users to their role home.
func (a *RouteAuthorizer) AuthorizePath(store CredentialStore, table *RoutePolicyTable, path string) Decision {
	rule, found := table.Lookup(path)
	if found && rule.Public {
		return Decision{Outcome: OutcomeAllow, State: StateUnauthenticated}
	}
	if found {
		return a.Authorize(store, rule.Policy)
	}

	claims, decision, ok := a.authenticate(store)
	if !ok {
		return decision
	}
	return redirect(decision, a.homes.Home(claims.Role()))
}

// authenticate reads and validates the stored credential. When ok is false
// the returned decision is final.
func (a *RouteAuthorizer) authenticate(store CredentialStore) (*domain.ClaimSet, Decision, bool) {
	credential, present := store.Get()
	if !present || credential == "" {
		return nil, redirect(Decision{State: StateUnauthenticated}, LoginPath), false
	}

	claims, err := jwt.DecodeUsable(credential, a.now())
	if err != nil {
		store.Clear()

		reason := "malformed"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		a.logger.Info("purged unusable credential",
			zap.String("reason", reason),
			zap.String("credential", fingerprint.Of(credential)),
			zap.Error(err),
		)

		return nil, redirect(Decision{State: StateUnauthenticated, Purged: true}, LoginPath), false
	}

	return claims, Decision{State: stateFor(claims.Role()), Claims: claims}, true
}

func stateFor(role domain.Role) NavState {
	switch role {
	case domain.RoleAdmin:
		return StateAuthenticatedAdmin
	case domain.RoleLecturer:
		return StateAuthenticatedLecturer
	default:
		return StateAuthenticatedNoRole
	}
}

func allow(d Decision) Decision {
	d.Outcome = OutcomeAllow
	d.RedirectTo = ""
	return d
}

func redirect(d Decision, to string) Decision {
	d.Outcome = OutcomeRedirect
	d.RedirectTo = to
	return d
}
