package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/kontrol/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/kontrol/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testOperator  = "caja1"
	testIssuer    = "kontrol-test"
	testExpMin    = 60
)

// buildAuthApp app mínima con AuthMiddleware y un handler que devuelve el operador.
func buildAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"operator": apphttp.GetOperator(c)})
	})
	return app
}

func bearer(t *testing.T, operator string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, operator, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doAuth(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeOperador(t *testing.T) {
	resp := doAuth(t, buildAuthApp(testJWTSecret), bearer(t, testOperator))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testOperator, body["operator"])
}

func TestAuthMiddleware_SinSecretUsaSistema(t *testing.T) {
	resp := doAuth(t, buildAuthApp(""), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sistema", body["operator"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testOperator, testIssuer, -1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"sin header", ""},
		{"sin Bearer", "Token abc"},
		{"token vacío", "Bearer   "},
		{"malformado", "Bearer token.invalido.aqui"},
		{"expirado", "Bearer " + expired},
	}
	app := buildAuthApp(testJWTSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doAuth(t, app, tt.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
