package handlers

import (
	"errors"
	"strings"
	"time"

	"room-scheduler/internal/adapters/http/middleware"
	"room-scheduler/internal/config"
	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/core/services"
	"room-scheduler/internal/pkg/jwt"
	"room-scheduler/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SessionHandler hands credentials to the gateway and answers navigation
// questions for the dashboard
type SessionHandler struct {
	authorizer *services.RouteAuthorizer
	routes     *services.RoutePolicyTable
	cookie     config.CookieConfig
	now        func() time.Time
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authorizer *services.RouteAuthorizer, routes *services.RoutePolicyTable, cookie config.CookieConfig, now func() time.Time) *SessionHandler {
	if now == nil {
		now = time.Now
	}
	return &SessionHandler{
		authorizer: authorizer,
		routes:     routes,
		cookie:     cookie,
		now:        now,
	}
}

// SessionRequest represents the credential hand-off body
type SessionRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// SubjectResponse describes the signed-in user
type SubjectResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Home      string    `json:"home"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NavigationResponse is the outcome of authorizing one navigation
type NavigationResponse struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	RedirectTo string `json:"redirect_to,omitempty"`
	State      string `json:"state"`
	Purged     bool   `json:"purged"`
}

// Navigation handles navigation checks
// @Summary Authorize a dashboard navigation
// @Description Evaluates the stored credential against the route table. Unusable credentials are purged.
// @Tags Session
// @Produce json
// @Param path query string true "Dashboard path, e.g. /schedule/calendar/CS"
// @Success 200 {object} response.Response{data=NavigationResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/navigation [get]
func (h *SessionHandler) Navigation(c *fiber.Ctx) error {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		return response.BadRequest(c, "path must be an absolute dashboard path")
	}

	store := middleware.NewCookieCredentialStore(c, h.cookie)
	decision := h.authorizer.AuthorizePath(store, h.routes, path)

	return response.Success(c, "Navigation evaluated", NavigationResponse{
		Path:       path,
		Outcome:    string(decision.Outcome),
		RedirectTo: decision.RedirectTo,
		State:      decision.State.String(),
		Purged:     decision.Purged,
	})
}

// Login handles the credential hand-off
// @Summary Start a session
// @Description Accepts a credential issued by the scheduling backend and stores it in an HTTP-only cookie
// @Tags Session
// @Accept json
// @Produce json
// @Param body body SessionRequest true "Credential"
// @Success 200 {object} response.Response{data=SubjectResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/session [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.AccessToken = strings.TrimSpace(req.AccessToken)
	if err := validate.Struct(req); err != nil {
		return response.BadRequest(c, "access_token is required")
	}

	claims, err := jwt.DecodeUsable(req.AccessToken, h.now())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return response.Unauthorized(c, "Access token expired")
		}
		return response.Unauthorized(c, "Invalid access token")
	}

	middleware.NewCookieCredentialStore(c, h.cookie).Set(req.AccessToken)

	return response.Success(c, "Session started", h.subject(claims))
}

// Logout handles session end
// @Summary End the session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	middleware.NewCookieCredentialStore(c, h.cookie).Clear()
	return response.Success(c, "Session ended", nil)
}

// Me returns the current user
// @Summary Current user
// @Tags Session
// @Produce json
// @Success 200 {object} response.Response{data=SubjectResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/me [get]
// @Security BearerAuth
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return response.FromError(c, domain.ErrMissingCredential)
	}
	return response.Success(c, "", h.subject(claims))
}

func (h *SessionHandler) subject(claims *domain.ClaimSet) SubjectResponse {
	return SubjectResponse{
		ID:        claims.Subject.ID,
		Username:  claims.Subject.Username,
		Role:      string(claims.Subject.Role),
		Home:      h.authorizer.Homes().Home(claims.Role()),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
}
