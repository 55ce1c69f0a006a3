// Package auth issues and verifies admin session tokens and hashes admin
// passwords. Tokens are stateless HS256 JWTs; nothing is stored server-side,
// so a token stays valid until its exp even after a password reset.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/timex"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the standard sub/iat/exp plus the username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Identity is what a verified token tells about the caller.
type Identity struct {
	SubjectID int64  `json:"subjectId"`
	Username  string `json:"username"`
}

// TokenService signs and checks session tokens with a server-held secret.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      timex.Clock
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(c timex.Clock) Option {
	return func(s *TokenService) { s.now = c }
}

func NewTokenService(secret []byte, lifetime time.Duration, opts ...Option) *TokenService {
	s := &TokenService{secret: secret, lifetime: lifetime, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Lifetime is the validity window of every issued token.
func (s *TokenService) Lifetime() time.Duration { return s.lifetime }

// Issue mints a token for admin and returns it with its expiry.
func (s *TokenService) Issue(admin *models.Admin) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Username: admin.Username,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify checks signature and expiry. It fails with common.ErrMissingToken,
// common.ErrExpiredToken or common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, common.ErrMissingToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.Username == "" {
		return nil, fmt.Errorf("%w: incomplete claims", common.ErrInvalidToken)
	}

	return &Identity{SubjectID: id, Username: claims.Username}, nil
}
