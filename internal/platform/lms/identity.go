package lms

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/campussim-backend/internal/logger"
)

type actingTokenKey struct{}

// ActingToken extracts the current acting-user token from a context, or
// "" outside an ActAs scope.
func ActingToken(ctx context.Context) string {
	if v, ok := ctx.Value(actingTokenKey{}).(string); ok {
		return v
	}
	return ""
}

// TokenSwitcher is the IdentitySwitcher binding. It mints a short-lived
// signed token per acting user, the way an LMS web-service binding would
// authenticate calls, and restores the prior identity on every exit path
// including panics. The core is single-threaded, so a plain field holds
// the current identity.
type TokenSwitcher struct {
	log     *logger.Logger
	secret  []byte
	ttl     time.Duration
	current uuid.UUID
}

func NewTokenSwitcher(baseLog *logger.Logger, secret string, ttl time.Duration) *TokenSwitcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenSwitcher{
		log:    baseLog.With("platform", "lms.TokenSwitcher"),
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// ActAs scopes fn to the given simulated user. The callback's context
// carries the minted token; the prior identity is restored by defer.
func (s *TokenSwitcher) ActAs(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context) error) error {
	token, err := s.mint(userID)
	if err != nil {
		return fmt.Errorf("mint acting token: %w", err)
	}
	prior := s.current
	s.current = userID
	defer func() { s.current = prior }()
	return fn(context.WithValue(ctx, actingTokenKey{}, token))
}

// Current reports the acting user, uuid.Nil outside any scope.
func (s *TokenSwitcher) Current() uuid.UUID { return s.current }

func (s *TokenSwitcher) mint(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		Issuer:    "campussim",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
