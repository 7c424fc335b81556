// Package auth verifies the bearer tokens presented on protected requests
// and turns them into an Identity.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the token issued by the login service: the owner id, the
// user's email and the standard registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Identity is the caller extracted from a verified token.
type Identity struct {
	UserID string
	Email  string
}

// GenerateToken signs an HS256 token for userID that expires after
// validityDuration.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Gate checks Authorization header values against the process signing
// secret. It holds no mutable state and is safe for concurrent use.
type Gate struct {
	secretKey []byte
	parser    *jwt.Parser
}

// NewGate returns a Gate verifying HS256 tokens signed with secretKey.
func NewGate(secretKey []byte) *Gate {
	return &Gate{
		secretKey: secretKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify validates a raw Authorization header value.
//
// A value without the "Bearer " scheme, or with an empty token, fails with
// common.ErrMissingCredential. Every other failure (signature, structure,
// expiry, missing user id) fails with common.ErrInvalidCredential so callers
// cannot tell them apart.
func (g *Gate) Verify(rawHeader string) (*Identity, error) {
	tokenString, ok := strings.CutPrefix(rawHeader, common.BearerScheme)
	if !ok || strings.TrimSpace(tokenString) == "" {
		return nil, common.ErrMissingCredential
	}

	claims := &Claims{}
	token, err := g.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidCredential
	}

	if claims.UserID == "" {
		return nil, common.ErrInvalidCredential
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// IsAuthError reports whether err is one of the credential failures.
func IsAuthError(err error) bool {
	return errors.Is(err, common.ErrMissingCredential) || errors.Is(err, common.ErrInvalidCredential)
}
