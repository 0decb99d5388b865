package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"room-scheduler/internal/config"
	"room-scheduler/internal/core/services"
	"room-scheduler/internal/testfixtures"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCookie = config.CookieConfig{Name: "access_token", SameSite: "lax"}

func newGuardedApp(t *testing.T) *fiber.App {
	t.Helper()

	clock := testfixtures.NewClock(time.Time{})
	authorizer := services.NewRouteAuthorizer(services.DefaultRoleHomes(), clock.Now, nil)
	guard := RouteGuard(authorizer, services.DashboardRoutes(), testCookie)
	ok := func(c *fiber.Ctx) error {
		return c.SendString("page " + c.Path())
	}

	app := fiber.New()
	app.Get("/", guard, ok)
	app.Get("/login", guard, ok)
	app.Get("/home", guard, ok)
	app.Get("/schedule/calendar", guard, ok)
	app.Get("/schedule/calendar/:major", guard, ok)
	app.Get("/profile", guard, ok)

	api := app.Group("/api", AuthMiddleware(authorizer, testCookie))
	api.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(ClaimsFrom(c).Subject)
	})
	api.Post("/refresh", AdminOnly(), ok)
	api.Get("/calendar", StaffOnly(), ok)

	return app
}

func request(method, target, cookie, bearer string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func TestRouteGuard(t *testing.T) {
	now := testfixtures.ReferenceTime()
	admin := testfixtures.Credential(t, 1, "root", "admin", now.Add(time.Hour))
	lecturer := testfixtures.Credential(t, 2, "dewi", "lecturer", now.Add(time.Hour))

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{name: "anonymous to admin page", path: "/home", status: fiber.StatusFound, location: "/login"},
		{name: "admin page", path: "/home", cookie: admin, status: fiber.StatusOK},
		{name: "lecturer to admin page", path: "/home", cookie: lecturer, status: fiber.StatusFound, location: "/schedule/calendar"},
		{name: "lecturer calendar", path: "/schedule/calendar/CS", cookie: lecturer, status: fiber.StatusOK},
		{name: "root admin", path: "/", cookie: admin, status: fiber.StatusFound, location: "/home"},
		{name: "root anonymous", path: "/", status: fiber.StatusFound, location: "/login"},
		{name: "login is public", path: "/login", status: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newGuardedApp(t).Test(request(fiber.MethodGet, tt.path, tt.cookie, ""))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
		})
	}
}

func TestRouteGuard_UnknownRoleSettles(t *testing.T) {
	student := testfixtures.Credential(t, 3, "budi", "student", testfixtures.ReferenceTime().Add(time.Hour))
	app := newGuardedApp(t)

	for _, start := range []string{"/", "/home", "/schedule/calendar", "/schedule/calendar/CS"} {
		t.Run(start, func(t *testing.T) {
			path := start
			for hops := 0; ; hops++ {
				require.Less(t, hops, 3, "redirect chain from %s did not settle", start)

				resp, err := app.Test(request(fiber.MethodGet, path, student, ""))
				require.NoError(t, err)
				if resp.StatusCode == fiber.StatusOK {
					break
				}

				require.Equal(t, fiber.StatusFound, resp.StatusCode)
				next := resp.Header.Get("Location")
				require.NotEqual(t, path, next, "%s redirects to itself", path)
				path = next
			}
			assert.Equal(t, "/profile", path)
		})
	}
}

func TestRouteGuard_PurgesExpiredCookie(t *testing.T) {
	expired := testfixtures.Credential(t, 1, "a", "lecturer", testfixtures.ReferenceTime().Add(-time.Minute))

	resp, err := newGuardedApp(t).Test(request(fiber.MethodGet, "/schedule/calendar/CS", expired, ""))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "access_token=;")
	assert.Contains(t, setCookie, "1970")
}

func TestAuthMiddleware(t *testing.T) {
	now := testfixtures.ReferenceTime()
	admin := testfixtures.Credential(t, 1, "root", "admin", now.Add(time.Hour))
	lecturer := testfixtures.Credential(t, 2, "dewi", "lecturer", now.Add(time.Hour))
	student := testfixtures.Credential(t, 3, "budi", "student", now.Add(time.Hour))
	expired := testfixtures.Credential(t, 2, "dewi", "lecturer", now.Add(-time.Hour))

	tests := []struct {
		name      string
		method    string
		path      string
		cookie    string
		bearer    string
		status    int
		setCookie bool
	}{
		{name: "no credential", method: "GET", path: "/api/me", status: fiber.StatusUnauthorized},
		{name: "cookie", method: "GET", path: "/api/me", cookie: lecturer, status: fiber.StatusOK},
		{name: "bearer header", method: "GET", path: "/api/me", bearer: admin, status: fiber.StatusOK},
		{name: "expired purges", method: "GET", path: "/api/me", cookie: expired, status: fiber.StatusUnauthorized, setCookie: true},
		{name: "garbage purges", method: "GET", path: "/api/me", bearer: "garbage", status: fiber.StatusUnauthorized, setCookie: true},
		{name: "admin refresh", method: "POST", path: "/api/refresh", cookie: admin, status: fiber.StatusOK},
		{name: "lecturer refresh", method: "POST", path: "/api/refresh", cookie: lecturer, status: fiber.StatusForbidden},
		{name: "lecturer calendar", method: "GET", path: "/api/calendar", cookie: lecturer, status: fiber.StatusOK},
		{name: "unknown role calendar", method: "GET", path: "/api/calendar", cookie: student, status: fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newGuardedApp(t).Test(request(tt.method, tt.path, tt.cookie, tt.bearer))
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.setCookie, resp.Header.Get("Set-Cookie") != "")
		})
	}
}

func TestCookieCredentialStore(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		store := NewCookieCredentialStore(c, config.CookieConfig{SameSite: "strict", Secure: true})
		token, ok := store.Get()
		if !ok {
			store.Set("fresh")
			return c.SendString("set")
		}
		return c.SendString(token)
	})

	resp, err := app.Test(request(fiber.MethodGet, "/", "", ""))
	require.NoError(t, err)
	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "access_token=fresh")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "secure")
	assert.Contains(t, setCookie, "SameSite=Strict")

	resp, err = app.Test(request(fiber.MethodGet, "/", "", "  "))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"), "blank bearer is no credential")
}
