package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sevenoy/GeminiMeds/models"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("geminimeds", "u1", time.Hour, "secret-key")

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.OwnerID != "u1" {
		t.Errorf("expected owner u1, got %q", token.OwnerID)
	}

	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Subject != "u1" || claims.Issuer != "geminimeds" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		owner    string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "u1", time.Hour, "key"},
		{"empty owner", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "u1", 0, "key"},
		{"empty key", "iss", "u1", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateJWTToken(tt.issuer, tt.owner, tt.duration, tt.key); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	token, err := GenerateJWTToken("geminimeds", "u1", time.Hour, "secret")
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "secret", "geminimeds")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.OwnerID != "u1" {
		t.Errorf("expected owner u1, got %q", parsed.OwnerID)
	}

	if _, err := ValidateAndParseJWTToken(token.SignedString, "wrong", "geminimeds"); err == nil {
		t.Error("expected signature error")
	}
	if _, err := ValidateAndParseJWTToken(token.SignedString, "secret", "other"); err == nil {
		t.Error("expected issuer error")
	}

	expired, err := GenerateJWTToken("geminimeds", "u1", -time.Minute, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateAndParseJWTToken(expired.SignedString, "secret", "geminimeds"); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired error, got %v", err)
	}
}

func TestParseBearerToken(t *testing.T) {
	got, err := ParseBearerToken("Bearer abc.def.ghi")
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("unexpected result %q, %v", got, err)
	}

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		if _, err := ParseBearerToken(header); !errors.Is(err, ErrInvalidAuthorizationHeader) {
			t.Errorf("header %q: expected ErrInvalidAuthorizationHeader, got %v", header, err)
		}
	}
}

func TestParseOwnerIDFromJWT(t *testing.T) {
	token, err := GenerateJWTToken("geminimeds", "owner-7", time.Hour, "secret")
	if err != nil {
		t.Fatal(err)
	}

	owner, err := ParseOwnerIDFromJWT(token.SignedString)
	if err != nil || owner != "owner-7" {
		t.Fatalf("unexpected result %q, %v", owner, err)
	}

	if _, err := ParseOwnerIDFromJWT("garbage"); err == nil {
		t.Error("expected parse error")
	}

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "x"})
	raw, _ := noSub.SignedString([]byte("k"))
	if _, err := ParseOwnerIDFromJWT(raw); !errors.Is(err, models.ErrEmptySubject) {
		t.Errorf("expected ErrEmptySubject, got %v", err)
	}
}
