package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/reimburse/expense-system/internal/api/handler"
	"github.com/reimburse/expense-system/internal/core/domain"
)

type stubAuth struct {
	registerFn func(ctx context.Context, email, password, name, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuth) Register(ctx context.Context, email, password, name, role string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, name, role)
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func newAuthServer(svc *stubAuth) *echo.Echo {
	e := echo.New()
	h := handler.NewAuthHandler(svc)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	return e
}

func TestRegister_Created(t *testing.T) {
	svc := &stubAuth{
		registerFn: func(_ context.Context, email, _, name, role string) (*domain.User, error) {
			if email != "bob@x.com" || name != "Bob" {
				t.Errorf("unexpected args: %s %s", email, name)
			}
			if role != "" {
				t.Errorf("role should pass through empty, got %q", role)
			}
			return &domain.User{ID: 1, Email: email, Name: name, Role: domain.RoleEmployee}, nil
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"bob@x.com","password":"hunter22","name":"Bob"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	user, _ := resp["user"].(map[string]any)
	if user["email"] != "bob@x.com" {
		t.Errorf("unexpected user in response: %v", user)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := &stubAuth{
		registerFn: func(_ context.Context, _, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"bob@x.com","password":"hunter22","name":"Bob"}`, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := &stubAuth{
		registerFn: func(_ context.Context, _, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"bob@x.com"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	svc := &stubAuth{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "jane@x.com" || password != "s3cret" {
				t.Errorf("unexpected args: %s %s", email, password)
			}
			return "a.b.c", &domain.User{ID: 2, Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"jane@x.com","password":"s3cret"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["token"] != "a.b.c" {
		t.Errorf("expected token in response, got %v", resp)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := &stubAuth{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"jane@x.com","password":"wrong"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := &stubAuth{
		loginFn: func(_ context.Context, _, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserNotFound
		},
	}
	e := newAuthServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ghost@x.com","password":"pw"}`, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
