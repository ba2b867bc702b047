package auth

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is malformed, has a bad
	// signature, or carries no subject.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Verifier resolves a bearer token to an owner identity. Token issuance is
// the identity provider's job; this service only verifies.
type Verifier interface {
	Verify(token string) (ownerID string, err error)
}

// JWTConfig holds the verification parameters shared with the identity
// provider.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// DefaultJWTConfig returns a default JWT configuration.
// In production, the secret key must be loaded from environment variables.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "dev-secret-change-in-production",
		Issuer:    "task-api",
	}
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		config.SecretKey = secret
	}
	if issuer := os.Getenv("AUTH_JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	return config
}

// JWTVerifier verifies HS256 tokens minted by the identity provider.
// The subject claim is the owner identity.
type JWTVerifier struct {
	config JWTConfig
}

// NewJWTVerifier creates a JWTVerifier with the given configuration.
func NewJWTVerifier(config JWTConfig) *JWTVerifier {
	return &JWTVerifier{config: config}
}

// Verify validates the token and returns the owner identity from the
// subject claim.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if v.config.Issuer != "" && claims.Issuer != v.config.Issuer {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
