package services

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := TokenService{Secret: []byte("test-secret"), Issuer: "test", TTL: 7 * 24 * time.Hour}
	token, exp, err := svc.CreateToken("user-1", "a@x.com", "admin")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if until := time.Until(time.Unix(exp, 0)); until < 6*24*time.Hour {
		t.Fatalf("expected roughly 7 day expiry, got %s", until)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@x.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := TokenService{Secret: []byte("test-secret"), Issuer: "test", TTL: -time.Minute}
	token, _, err := svc.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := TokenService{Secret: []byte("secret-a"), Issuer: "test", TTL: time.Hour}
	token, _, err := issuer.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	verifier := TokenService{Secret: []byte("secret-b"), Issuer: "test", TTL: time.Hour}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	issuer := TokenService{Secret: []byte("secret"), Issuer: "other", TTL: time.Hour}
	token, _, err := issuer.CreateToken("user-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	verifier := TokenService{Secret: []byte("secret"), Issuer: "test", TTL: time.Hour}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := TokenService{Secret: []byte("secret"), Issuer: "test", TTL: time.Hour}
	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}
