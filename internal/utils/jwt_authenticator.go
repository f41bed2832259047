package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// AuthenticatedUser is the identity carried by a validated bearer token. The
// account name is what the collection permission predicate is evaluated
// against.
type AuthenticatedUser struct {
	Account string
	Aud     []string
}

// JwtAuthenticator validates HMAC-signed bearer tokens issued by the wallet
// gateway.
type JwtAuthenticator struct {
	secret []byte
}

// NewJwtAuthenticator creates an authenticator for the given shared secret.
func NewJwtAuthenticator(secret []byte) (*JwtAuthenticator, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	return &JwtAuthenticator{secret: secret}, nil
}

type accountClaims struct {
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies a bearer token, returning the
// authenticated user. The subject claim carries the chain account name.
func (a *JwtAuthenticator) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accountClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*accountClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token carries no account")
	}

	return &AuthenticatedUser{
		Account: claims.Subject,
		Aud:     claims.Audience,
	}, nil
}

// IssueToken signs a short-lived token for an account. Used by the gateway
// and by tests.
func (a *JwtAuthenticator) IssueToken(account string, ttl time.Duration) (string, error) {
	claims := accountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
