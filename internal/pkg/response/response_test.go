package response

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"room-scheduler/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: domain.ErrDecodeFailure, code: fiber.StatusUnauthorized},
		{err: fmt.Errorf("wrapped: %w", domain.ErrExpiredCredential), code: fiber.StatusUnauthorized},
		{err: domain.ErrMissingCredential, code: fiber.StatusUnauthorized},
		{err: domain.ErrUnknownMajor, code: fiber.StatusNotFound},
		{err: domain.ErrInvalidWindow, code: fiber.StatusBadRequest},
		{err: fmt.Errorf("%w: dial tcp", domain.ErrSourceUnavailable), code: fiber.StatusServiceUnavailable},
		{err: io.ErrUnexpectedEOF, code: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestSuccess(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Success(c, "ok", fiber.Map{"n": 1}) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"n":1}}`, string(raw))
}
