package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"subercraftex/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func claimsFor(sub, role string) Claims {
	return Claims{
		Name: "Ada",
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func whoami(c *fiber.Ctx) error {
	a := GetActor(c)
	return c.JSON(fiber.Map{"id": a.ID, "role": a.Role})
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/required", RequireAuthentication(secret), whoami)
	app.Get("/optional", OptionalAuthentication(secret), whoami)
	app.Get("/admin", RequireAuthentication(secret), RequireRoles(constants.RoleAdmin), whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	out := map[string]string{}
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func TestRequireAuthentication(t *testing.T) {
	app := newApp()

	status, _ := call(t, app, "/required", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := call(t, app, "/required", sign(t, secret, jwt.SigningMethodHS256, claimsFor("u1", "customer")))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u1", body["id"])

	status, _ = call(t, app, "/required", sign(t, "other-secret", jwt.SigningMethodHS256, claimsFor("u1", "customer")))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := claimsFor("u1", "customer")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	status, _ = call(t, app, "/required", sign(t, secret, jwt.SigningMethodHS256, expired))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "/required", sign(t, secret, jwt.SigningMethodHS384, claimsFor("u1", "customer")))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestOptionalAuthentication(t *testing.T) {
	app := newApp()

	status, body := call(t, app, "/optional", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "", body["id"])

	status, _ = call(t, app, "/optional", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireRoles(t *testing.T) {
	app := newApp()

	status, _ := call(t, app, "/admin", sign(t, secret, jwt.SigningMethodHS256, claimsFor("u1", "customer")))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := call(t, app, "/admin", sign(t, secret, jwt.SigningMethodHS256, claimsFor("a1", "admin")))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body["role"])
}
