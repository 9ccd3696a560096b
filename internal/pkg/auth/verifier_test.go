package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, issuer, subject string, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		DisplayName: "Test User",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(VerifierConfig{SecretKey: testSecret, Issuer: "huddle.app"})

	t.Run("valid token yields identity", func(t *testing.T) {
		token := mintToken(t, testSecret, "huddle.app", "user_123", time.Now().Add(time.Hour))
		identity, err := v.Verify(token)
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if identity.UserID != "user_123" {
			t.Errorf("UserID = %q, want user_123", identity.UserID)
		}
		if identity.DisplayName != "Test User" {
			t.Errorf("DisplayName = %q, want Test User", identity.DisplayName)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := mintToken(t, testSecret, "huddle.app", "user_123", time.Now().Add(-time.Hour))
		if _, err := v.Verify(token); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("error = %v, want ErrExpiredToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := mintToken(t, "other-secret", "huddle.app", "user_123", time.Now().Add(time.Hour))
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for token signed with wrong secret")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := mintToken(t, testSecret, "someone-else", "user_123", time.Now().Add(time.Hour))
		if _, err := v.Verify(token); err == nil {
			t.Error("expected error for token from wrong issuer")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		token := mintToken(t, testSecret, "huddle.app", "", time.Now().Add(time.Hour))
		if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard header", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"case-insensitive scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
