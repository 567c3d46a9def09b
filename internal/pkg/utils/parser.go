package utils

import (
	"context"
	"errors"

	"heartshield-service/internal/pkg/constvars"

	"github.com/golang-jwt/jwt/v4"
)

// IdentityFromContext returns the caller identity the middleware stored, if
// any.
func IdentityFromContext(ctx context.Context) (*IdentityClaims, bool) {
	identity, ok := ctx.Value(constvars.CONTEXT_IDENTITY_KEY).(*IdentityClaims)
	return identity, ok && identity != nil
}

// IdentityClaims is the subset of gateway token claims the service trusts.
type IdentityClaims struct {
	Subject string
	Role    string
}

// ParseIdentityJWT verifies an HS256 token minted by the upstream gateway
// and returns the caller identity embedded in it.
func ParseIdentityJWT(tokenString, secret string) (*IdentityClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return nil, errors.New("token missing subject")
	}

	identity := &IdentityClaims{Subject: subject}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	return identity, nil
}
