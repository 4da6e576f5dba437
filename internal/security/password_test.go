package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Error("Hash must not equal the plaintext password")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("Expected non-matching password to fail")
	}
	if CheckPassword("correct horse battery", "not a bcrypt hash") {
		t.Error("Expected malformed hash to fail")
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()
	if a == "" || b == "" {
		t.Fatal("Expected non-empty session IDs")
	}
	if a == b {
		t.Error("Expected unique session IDs")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(token))
	}

	other, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	if token == other {
		t.Error("Expected unique tokens")
	}
}
