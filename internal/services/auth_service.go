package services

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"salon-chat/config"
	chat_errors "salon-chat/pkg/errors"
)

// AuthService validates bearer credentials issued by the external identity
// service. Token issuance, login and refresh live outside this service; only
// validation happens here.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{jwtSecret: []byte(cfg.JWTSecret)}
}

type AccessClaims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity attached to a request or
// websocket connection.
type Principal struct {
	ID   uuid.UUID
	Role string
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, chat_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, chat_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, chat_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, chat_errors.ErrUnauthorized
	}

	return *claims, nil
}

// Authenticate parses the token and resolves it into a Principal.
func (s *AuthService) Authenticate(tokenString string) (Principal, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return Principal{}, err
	}
	userID, err := uuid.Parse(strings.TrimSpace(claims.UserID))
	if err != nil {
		return Principal{}, chat_errors.ErrUnauthorized
	}
	return Principal{ID: userID, Role: claims.Role}, nil
}

type ctxKey string

var principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	value := ctx.Value(principalKey)
	if value == nil {
		return Principal{}, false
	}
	p, ok := value.(Principal)
	return p, ok
}
