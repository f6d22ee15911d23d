package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "google:123", Email: "a@example.com", Name: "A"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token has %d segments", strings.Count(token, ".")+1)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "google:123" || claims.Email != "a@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Exp <= claims.Iat {
		t.Errorf("exp %d not after iat %d", claims.Exp, claims.Iat)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "google:123"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT(token + "x"); err == nil {
		t.Fatal("tampered signature accepted")
	}
	if _, err := VerifyJWT("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	past := time.Now().UTC().Add(-time.Hour).Unix()
	token, err := SignJWT(Claims{Sub: "google:123", Iat: past - 60, Exp: past})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestSignRequiresSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "production")

	if _, err := SignJWT(Claims{Sub: "google:123"}); err == nil {
		t.Fatal("want error without JWT_SECRET in production")
	}
}
