package security

import (
	"testing"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		role   string
	}{
		{
			name:   "Regular user",
			userID: 1,
			role:   RoleUser,
		},
		{
			name:   "Admin user",
			userID: 2,
			role:   RoleAdmin,
		},
		{
			name:   "Agent",
			userID: 3,
			role:   RoleAgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT(tt.userID, tt.role, "test_secret_key_minimum_32_chars")
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}

			if token == "" {
				t.Error("GenerateToken() returned empty token")
			}

			// Validate the token
			claims, err := ValidateJWT(token, "test_secret_key_minimum_32_chars")
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}

			if claims.UserID != tt.userID {
				t.Errorf("UserID = %d, want %d", claims.UserID, tt.userID)
			}

			if claims.Role != tt.role {
				t.Errorf("Role = %q, want %q", claims.Role, tt.role)
			}
		})
	}
}

func TestValidateToken_InvalidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Invalid format",
			token: "invalid.token.here",
		},
		{
			name:  "Random string",
			token: "randomstring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, "test_secret_key_minimum_32_chars")
			if err == nil {
				t.Error("ValidateToken() expected error for invalid token, got nil")
			}
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, RoleUser, "test_secret_key_minimum_32_chars")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ValidateJWT(token, "another_secret_key_minimum_32_chars"); err == nil {
		t.Error("ValidateToken() expected error for wrong secret, got nil")
	}
}
