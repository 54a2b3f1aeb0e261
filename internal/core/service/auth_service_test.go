package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/reimburse/expense-system/internal/core/domain"
)

const testSecret = "test-secret"

func TestRegister_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	user, err := svc.Register(context.Background(), "bob@x.com", "hunter22", "Bob", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleEmployee {
		t.Errorf("expected default role employee, got %q", user.Role)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo("bob@x.com"), testSecret, time.Hour)

	_, err := svc.Register(context.Background(), "bob@x.com", "hunter22", "Bob", "")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	cases := []struct {
		name                        string
		email, password, user, role string
	}{
		{"missing email", "", "pw", "Bob", ""},
		{"missing password", "bob@x.com", "", "Bob", ""},
		{"missing name", "bob@x.com", "pw", "", ""},
		{"bogus role", "bob@x.com", "pw", "Bob", "superuser"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.email, tc.password, tc.user, tc.role)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "jane@x.com", "s3cret", "Jane", domain.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "jane@x.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "jane@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["email"] != "jane@x.com" || claims["role"] != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)
	if _, err := svc.Register(context.Background(), "jane@x.com", "s3cret", "Jane", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "jane@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost@x.com", "pw")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
