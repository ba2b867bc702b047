package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func testConfig() JWTConfig {
	return JWTConfig{
		SecretKey: testSecret,
		Issuer:    "task-api",
	}
}

// mintToken signs an HS256 token with the given claims.
func mintToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "task-api",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())
	token := mintToken(t, testSecret, validClaims())

	ownerID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ownerID != "user-123" {
		t.Errorf("ownerID = %q, want %q", ownerID, "user-123")
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := mintToken(t, testSecret, claims)

	_, err := verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())
	token := mintToken(t, "some-other-secret", validClaims())

	_, err := verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTVerifier_WrongIssuer(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())

	claims := validClaims()
	claims.Issuer = "someone-else"
	token := mintToken(t, testSecret, claims)

	_, err := verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTVerifier_MissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())

	claims := validClaims()
	claims.Subject = ""
	token := mintToken(t, testSecret, claims)

	_, err := verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTVerifier_MalformedToken(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := verifier.Verify(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestJWTVerifier_RejectsUnsignedToken(t *testing.T) {
	verifier := NewJWTVerifier(testConfig())

	// alg=none tokens must never verify.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	_, err = verifier.Verify(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
