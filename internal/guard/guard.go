// Package guard decides whether a navigation may proceed given the current
// session and the roles a route requires.
package guard

import (
	"github.com/storefront-dev/storefront/internal/session"
	"github.com/storefront-dev/storefront/internal/token"
)

const (
	LoginPath     = "/login"
	ForbiddenPath = "/forbidden"
)

// Outcome is the terminal result of a guard check
type Outcome int

const (
	Allowed Outcome = iota
	RedirectLogin
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectLogin:
		return "redirect-login"
	case RedirectForbidden:
		return "redirect-forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating one navigation attempt
type Decision struct {
	Outcome Outcome
	// From is the attempted location, set on RedirectLogin so the login
	// flow can return there.
	From string
	// To is the redirect target, empty when allowed.
	To string
}

func allow() Decision {
	return Decision{Outcome: Allowed}
}

func redirectLogin(from string) Decision {
	return Decision{Outcome: RedirectLogin, From: from, To: LoginPath}
}

func redirectForbidden() Decision {
	return Decision{Outcome: RedirectForbidden, To: ForbiddenPath}
}

// Evaluate checks a guarded location. A missing access token always wins,
// even when the route requires no role.
func Evaluate(s session.Session, location string, required []string) Decision {
	if !s.IsAuthenticated() {
		return redirectLogin(location)
	}

	if len(token.NormalizeRoles(required)) == 0 {
		return allow()
	}

	userRoles := s.Roles()
	if len(userRoles) == 0 {
		return redirectForbidden()
	}

	if intersects(required, userRoles) {
		return allow()
	}
	return redirectForbidden()
}

func intersects(required, have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, r := range token.NormalizeRoles(have) {
		set[r] = struct{}{}
	}
	for _, r := range token.NormalizeRoles(required) {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

// AfterLogin picks where to go once login succeeds: back to the location that
// triggered the redirect, else the landing page for the user's roles.
func AfterLogin(from string, user *token.Claims) string {
	if from != "" && from != LoginPath {
		return from
	}
	return LandingPath(user)
}

// LandingPath returns the default page for a freshly logged-in user
func LandingPath(user *token.Claims) string {
	switch {
	case user.HasRole("ADMIN"):
		return "/admin/users"
	case user.HasRole("USER"):
		return "/products"
	default:
		return "/"
	}
}

// CanEditProduct reports whether the session user owns the product or is an admin
func CanEditProduct(s session.Session, ownerID string) bool {
	if !s.IsAuthenticated() || s.User == nil {
		return false
	}
	if ownerID != "" && s.User.ID == ownerID {
		return true
	}
	return s.User.HasRole("ADMIN")
}
