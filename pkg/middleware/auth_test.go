package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/testutils"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/", JwtProtected(&config.Jwt{Secret: testutils.TestJWTSecret}), func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusForbidden)
		}
		return c.SendString(userID)
	})
	return app
}

func TestJwtProtected(t *testing.T) {
	app := protectedApp()

	resp := testutils.MakeRequest(t, app, http.MethodGet, "/", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = testutils.MakeRequest(t, app, http.MethodGet, "/", "", testutils.NewToken(t, "other-secret", "u1"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))

	resp = testutils.MakeRequest(t, app, http.MethodGet, "/", "", testutils.NewToken(t, testutils.TestJWTSecret, "clerk-7"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "clerk-7", string(body))
}

func TestJwtError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{jwtware.ErrJWTMissingOrMalformed, fiber.StatusBadRequest},
		{errors.New("token is expired"), fiber.StatusUnauthorized},
	}
	for _, tc := range tests {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error { return jwtError(c, tc.err) })
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestCurrentUserIDWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := CurrentUserID(c)
		require.Error(t, err)
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
