package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/shaka3507/amanos/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: 42,
		Email:  "alma@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func runMiddleware(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := JWTAuthMiddleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Run("valid token stores claims", func(t *testing.T) {
		token := signToken(t, testSecret, time.Now().Add(time.Hour))
		c, err := runMiddleware(t, "Bearer "+token)
		if err != nil {
			t.Fatalf("Middleware rejected a valid token: %v", err)
		}
		claims, ok := c.Get("user").(*models.JwtCustomClaims)
		if !ok {
			t.Fatal("Claims missing from context")
		}
		if claims.UserID != 42 {
			t.Errorf("user_id = %d, want 42", claims.UserID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := runMiddleware(t, "")
		assertUnauthorized(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := runMiddleware(t, "Token abc")
		assertUnauthorized(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", time.Now().Add(time.Hour))
		_, err := runMiddleware(t, "Bearer "+token)
		assertUnauthorized(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, time.Now().Add(-time.Minute))
		_, err := runMiddleware(t, "Bearer "+token)
		assertUnauthorized(t, err)
	})
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %v", err)
	}
}
