package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/config"
)

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/admin", JWTMiddleware, RequireRole("ADMIN"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", c.Locals("userId"))
	})
	return app
}

func get(t *testing.T, app *fiber.App, auth string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTMiddleware(t *testing.T) {
	app := newProtectedApp(t)

	admin, err := GenerateJWT(1, "Admin", "ADMIN", "admin@example.com")
	require.NoError(t, err)
	user, err := GenerateJWT(2, "User", "USER", "user@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, app, "Bearer "+admin))
	assert.Equal(t, http.StatusForbidden, get(t, app, "Bearer "+user))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, admin))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer not-a-token"))
}

func TestJWTMiddlewareRejectsForeignSignature(t *testing.T) {
	app := newProtectedApp(t)

	claims := jwt.MapClaims{"userId": 1, "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer "+forged))

	expired := jwt.MapClaims{"userId": 1, "role": "ADMIN", "exp": time.Now().Add(-time.Hour).Unix()}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer "+stale))
}

func TestJWTMiddlewareRequiresAdminID(t *testing.T) {
	app := newProtectedApp(t)

	claims := jwt.MapClaims{"role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()}
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer "+anonymous))
}

func TestGenerateJWTClaims(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	raw, err := GenerateJWT(5, "Studio admin", "ADMIN", "admin@example.com")
	require.NoError(t, err)

	claims, err := parseAdminToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(adminTokenTTL), claims.ExpiresAt.Time, time.Minute)
}
