package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionValidity is the lifetime of a session token.
const DefaultSessionValidity = 24 * time.Hour

// Claims is the signed claim set: the subject id travels in "sub", the
// role tag in "rol".
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"rol"`
}

// Session is the verified content of a session token. Role is the raw tag
// as signed; callers dispatch on it with ParseRole.
type Session struct {
	SubjectID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 session tokens with a secret injected
// at construction.
type TokenCodec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenCodec(secret []byte, validity time.Duration) *TokenCodec {
	if validity <= 0 {
		validity = DefaultSessionValidity
	}
	return &TokenCodec{secret: secret, validity: validity, now: time.Now}
}

// Issue mints a token for subjectID acting as role.
func (c *TokenCodec) Issue(subjectID string, role Role) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		Role: string(role),
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry. Errors are one of
// common.ErrInvalidSignature, common.ErrTokenExpired or
// common.ErrTokenMalformed.
func (c *TokenCodec) Verify(tokenString string) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
		}
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrTokenMalformed
	}

	s := &Session{SubjectID: claims.Subject, Role: claims.Role}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	s.ExpiresAt = claims.ExpiresAt.Time
	return s, nil
}
