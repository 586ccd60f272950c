package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the caller carried inside a session token.
type Identity struct {
	UserID         int64
	Email          string
	OrganizationID int64
}

type claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organizationId"`
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(identity Identity) (string, error) {
	now := t.now()
	userID := strconv.FormatInt(identity.UserID, 10)
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID:         userID,
		Email:          identity.Email,
		OrganizationID: strconv.FormatInt(identity.OrganizationID, 10),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	orgID, err := strconv.ParseInt(c.OrganizationID, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: userID, Email: c.Email, OrganizationID: orgID}, nil
}
