package validation

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid username", "adebayo", false},
		{"Minimum length", "ade", false},
		{"Too short", "ab", true},
		{"Empty", "", true},
		{"Whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q, got nil", tt.username)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %q, got %v", tt.username, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid email", "learner@example.com", false},
		{"Valid with plus", "learner+tag@example.com", false},
		{"Missing at sign", "learner.example.com", true},
		{"Missing domain", "learner@", true},
		{"Missing TLD", "learner@example", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q, got nil", tt.email)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %q, got %v", tt.email, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret1"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidatePassword("12345"); err == nil {
		t.Error("Expected error for short password, got nil")
	}
	if err := ValidatePassword(""); err == nil {
		t.Error("Expected error for empty password, got nil")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "email", Message: "invalid email format"}
	if err.Error() != "email: invalid email format" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
}
