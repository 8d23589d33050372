package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	return m
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := NewTokenManager("", time.Minute); err == nil {
		t.Error("Expected error for empty secret")
	}
	if _, err := NewTokenManager("secret", 0); err == nil {
		t.Error("Expected error for zero ttl")
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, expiresAt, err := m.GenerateUserToken("a@x.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if time.Until(expiresAt) > 15*time.Minute || time.Until(expiresAt) < 14*time.Minute {
		t.Errorf("Unexpected expiry %s", expiresAt)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Subject != "a@x.com" {
		t.Errorf("Unexpected claims %+v", claims)
	}
	if claims.Role != "user" {
		t.Errorf("Expected role user, got %s", claims.Role)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := m.GenerateUserToken("a@x.com")
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := newTestManager(t)

	other, err := NewTokenManager("other-secret", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := other.GenerateUserToken("a@x.com")

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{Email: "a@x.com", Role: "user"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	deviceToken, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		Email: "a@x.com",
		Role:  "device",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"alg none":     noneToken,
		"wrong role":   deviceToken,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
