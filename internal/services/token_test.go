package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService("   "); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestGenerateAndVerify(t *testing.T) {
	svc, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := svc.Generate(7, "alice", "staff")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims := svc.Verify(token)
	if claims == nil {
		t.Fatalf("expected token to verify")
	}
	if claims.AuthID != 7 || claims.Username != "alice" || claims.Role != "staff" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 24*time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer, err := NewTokenService("other-secret")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	verifier, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	token, err := signer.Generate(7, "alice", "staff")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if claims := verifier.Verify(token); claims != nil {
		t.Fatalf("expected tampered token to be rejected, got %+v", claims)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if claims := svc.Verify(token); claims != nil {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	expired := signTestToken(t, Claims{
		AuthID:   7,
		Username: "alice",
		Role:     "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	})

	if claims := svc.Verify(expired); claims != nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyRejectsMissingIdentityClaims(t *testing.T) {
	svc, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	base := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	cases := map[string]Claims{
		"no auth id":  {Username: "alice", Role: "staff", RegisteredClaims: base},
		"no username": {AuthID: 7, Role: "staff", RegisteredClaims: base},
		"no role":     {AuthID: 7, Username: "alice", RegisteredClaims: base},
	}
	for name, claims := range cases {
		token := signTestToken(t, claims)
		if got := svc.Verify(token); got != nil {
			t.Fatalf("%s: expected rejection, got %+v", name, got)
		}
	}
}

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return token
}
