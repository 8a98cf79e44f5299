// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name          string
		appointmentID string
		salt          string
	}{
		{"standard", "appt123", "secret-salt"},
		{"empty appointment id", "", "salt"},
		{"empty salt", "appt456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.appointmentID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.appointmentID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.appointmentID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.appointmentID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different appointment IDs")
				}
			}

			// Should be URL-safe (no padding)
			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	appointmentID := "test-appt-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(appointmentID, salt)

	tests := []struct {
		name          string
		appointmentID string
		adminKey      string
		salt          string
		wantErr       bool
	}{
		{"valid key", appointmentID, validKey, salt, false},
		{"wrong key", appointmentID, "wrong-key", salt, true},
		{"wrong appointment id", "different-appt", validKey, salt, true},
		{"wrong salt", appointmentID, validKey, "different-salt", true},
		{"empty key", appointmentID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.appointmentID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateShareToken(t *testing.T) {
	token, err := GenerateShareToken()
	if err != nil {
		t.Fatalf("GenerateShareToken() error = %v", err)
	}

	// 24 bytes base64-encoded without padding = 32 chars
	if len(token) != 32 {
		t.Errorf("GenerateShareToken() length = %d, want 32", len(token))
	}
	if strings.Contains(token, "=") {
		t.Error("GenerateShareToken() contains padding characters")
	}

	token2, _ := GenerateShareToken()
	if token == token2 {
		t.Error("GenerateShareToken() produced duplicate tokens (extremely unlikely)")
	}
}
