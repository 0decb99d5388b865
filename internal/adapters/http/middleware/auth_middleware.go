package middleware

import (
	"room-scheduler/internal/config"
	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/core/services"
	"room-scheduler/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// RouteGuard gates dashboard pages. Every navigation is re-evaluated
// against the current credential and the static route table.
func RouteGuard(authorizer *services.RouteAuthorizer, table *services.RoutePolicyTable, cookie config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := NewCookieCredentialStore(c, cookie)

		decision := authorizer.AuthorizePath(store, table, c.Path())
		c.Set(fiber.HeaderCacheControl, "no-store")
		if !decision.Allowed() {
			return c.Redirect(decision.RedirectTo, fiber.StatusFound)
		}

		setClaims(c, decision.Claims)
		return c.Next()
	}
}

// AuthMiddleware requires a usable credential on API routes. It answers 401
// instead of redirecting and purges credentials that can no longer be used.
func AuthMiddleware(authorizer *services.RouteAuthorizer, cookie config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := NewCookieCredentialStore(c, cookie)

		decision := authorizer.Authorize(store, services.Unrestricted())
		if !decision.Allowed() {
			if decision.Purged {
				return response.Unauthorized(c, "Access token invalid or expired")
			}
			return response.Unauthorized(c, "Access token required")
		}

		setClaims(c, decision.Claims)
		return c.Next()
	}
}

// RoleMiddleware applies a route policy to an authenticated API request
func RoleMiddleware(policy services.RoutePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !policy.Permits(claims.Role()) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(services.RequireRole(domain.RoleAdmin))
}

// StaffOnly middleware allows admins and lecturers
func StaffOnly() fiber.Handler {
	return RoleMiddleware(services.AllowRoles(domain.RoleAdmin, domain.RoleLecturer))
}

// ClaimsFrom returns the claims set by RouteGuard or AuthMiddleware
func ClaimsFrom(c *fiber.Ctx) *domain.ClaimSet {
	claims, _ := c.Locals(claimsKey).(*domain.ClaimSet)
	return claims
}

func setClaims(c *fiber.Ctx, claims *domain.ClaimSet) {
	if claims == nil || claims.Subject == nil {
		return
	}
	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.Subject.ID)
	c.Locals("username", claims.Subject.Username)
	c.Locals("role", string(claims.Subject.Role))
}
