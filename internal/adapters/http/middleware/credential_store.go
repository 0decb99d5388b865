package middleware

import (
	"strings"
	"time"

	"room-scheduler/internal/config"

	"github.com/gofiber/fiber/v2"
)

// CookieCredentialStore keeps the session credential in an HTTP-only
// cookie. Reads fall back to an "Authorization: Bearer" header.
type CookieCredentialStore struct {
	c      *fiber.Ctx
	cookie config.CookieConfig
}

// NewCookieCredentialStore binds a store to one request
func NewCookieCredentialStore(c *fiber.Ctx, cookie config.CookieConfig) *CookieCredentialStore {
	if cookie.Name == "" {
		cookie.Name = "access_token"
	}
	return &CookieCredentialStore{c: c, cookie: cookie}
}

// Get returns the credential from the cookie, else from the bearer header
func (s *CookieCredentialStore) Get() (string, bool) {
	if token := s.c.Cookies(s.cookie.Name); token != "" {
		return token, true
	}

	authHeader := s.c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	return "", false
}

// Set stores credential in the session cookie
func (s *CookieCredentialStore) Set(credential string) {
	s.c.Cookie(s.base(credential))
}

// Clear expires the session cookie
func (s *CookieCredentialStore) Clear() {
	ck := s.base("")
	ck.Expires = time.Unix(0, 0)
	ck.MaxAge = -1
	s.c.Cookie(ck)
}

func (s *CookieCredentialStore) base(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   s.cookie.Domain,
		Secure:   s.cookie.Secure,
		HTTPOnly: true,
		SameSite: sameSite(s.cookie.SameSite),
	}
}

func sameSite(v string) string {
	switch strings.ToLower(v) {
	case "strict":
		return fiber.CookieSameSiteStrictMode
	case "none":
		return fiber.CookieSameSiteNoneMode
	default:
		return fiber.CookieSameSiteLaxMode
	}
}
