package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"salon-chat/config"
	chat_errors "salon-chat/pkg/errors"
)

const testSecret = "test-secret"

func newAuthService() *AuthService {
	return NewAuthService(&config.Config{JWTSecret: testSecret})
}

func signToken(t *testing.T, secret string, claims AccessClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService()
	userID := uuid.New()

	token := signToken(t, testSecret, AccessClaims{
		UserID: userID.String(),
		Role:   "CUSTOMER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	principal, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if principal.ID != userID || principal.Role != "CUSTOMER" {
		t.Fatalf("got principal %+v", principal)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	svc := newAuthService()
	valid := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", signToken(t, "other-secret", AccessClaims{UserID: uuid.NewString(), RegisteredClaims: valid})},
		{"expired", signToken(t, testSecret, AccessClaims{
			UserID:           uuid.NewString(),
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		})},
		{"subject not a uuid", signToken(t, testSecret, AccessClaims{UserID: "42", RegisteredClaims: valid})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(tt.token); !errors.Is(err, chat_errors.ErrUnauthorized) {
				t.Fatalf("want ErrUnauthorized, got %v", err)
			}
		})
	}
}
