package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "bob@x.com",
		"name":  "Bob",
		"role":  "employee",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, c := runAuth(t, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get("email") != "bob@x.com" || c.Get("role") != "employee" {
		t.Errorf("claims not injected: email=%v role=%v", c.Get("email"), c.Get("role"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	rec, _ := runAuth(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	rec, _ := runAuth(t, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"email": "bob@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "bob@x.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	rec, _ := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_RejectsUnexpectedAlg(t *testing.T) {
	// alg=none style tokens must never pass.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"email": "bob@x.com",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, _ := runAuth(t, "Bearer "+unsigned)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
