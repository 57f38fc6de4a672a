// Package auth issues and verifies the stateless bearer tokens that bound a
// session. There is no server-side revocation list: a token stays valid
// until its expiry, and rotating the signing secret is the only (emergency)
// lever that invalidates outstanding tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sbuga/passvault/internal/common"
)

// Claims are the identity claims carried by a bearer token. They are minted
// at login/registration and re-validated on every authenticated call; they
// are never persisted server-side.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Identity is the claim payload supplied by the caller at issuance.
type Identity struct {
	AccountID string
	Email     string
	FirstName string
	LastName  string
}

// GenerateToken signs an HS256 token for id with the given validity window.
func GenerateToken(id Identity, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		AccountID: id.AccountID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the claims.
// Failure kinds are distinct sentinel errors (common.ErrTokenExpired,
// common.ErrInvalidSignature, common.ErrTokenMalformed); callers usually
// treat them all as "unauthenticated" and log the detail internally.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		default:
			return nil, common.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}
