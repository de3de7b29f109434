package services

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", hash)
	}
	if !VerifyPassword("correct horse", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("wrong horse", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestVerifyBcryptFallback(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if !VerifyPassword("legacy-pw", string(hash)) {
		t.Fatalf("expected bcrypt hash to verify")
	}
	if VerifyPassword("other-pw", string(hash)) {
		t.Fatalf("expected wrong password to fail against bcrypt hash")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if VerifyPassword("anything", "$argon2id$not$a$real$hash") {
		t.Fatalf("expected malformed hash to fail")
	}
}
