package middleware

import "testing"

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid uuid", "6f1c8a4e-9b2d-4c3a-8e5f-1a2b3c4d5e6f", "6f1c8a4e-9b2d-4c3a-8e5f-1a2b3c4d5e6f", false},
		{"uppercase normalized", "6F1C8A4E-9B2D-4C3A-8E5F-1A2B3C4D5E6F", "6f1c8a4e-9b2d-4c3a-8e5f-1a2b3c4d5e6f", false},
		{"trims whitespace", " 6f1c8a4e-9b2d-4c3a-8e5f-1a2b3c4d5e6f ", "6f1c8a4e-9b2d-4c3a-8e5f-1a2b3c4d5e6f", false},
		{"empty", "", "", true},
		{"not a uuid", "12345", "", true},
		{"missing dashes", "6f1c8a4e9b2d4c3a8e5f1a2b3c4d5e6f", "", true},
		{"sql injection", "'; DROP TABLE users--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "jairo", "jairo", false},
		{"with space", "Jairo ProDev", "Jairo ProDev", false},
		{"accented", "José", "José", false},
		{"trims whitespace", "  ana  ", "ana", false},
		{"empty", "", "", true},
		{"too long", string(make([]byte, 51)), "", true},
		{"control chars", "a\x00b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateName(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "ana@example.com", "ana@example.com", false},
		{"normalized lowercase", "Ana@Example.COM", "ana@example.com", false},
		{"empty", "", "", true},
		{"no domain", "ana@", "", true},
		{"no at", "ana.example.com", "", true},
		{"spaces", "a na@example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateEmail(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if msg := ValidatePassword("corto"); msg == "" {
		t.Error("short password accepted")
	}
	if msg := ValidatePassword("contraseña-larga"); msg != "" {
		t.Errorf("valid password rejected: %s", msg)
	}
	// Leading/trailing whitespace counts toward the length.
	if msg := ValidatePassword("      ab"); msg != "" {
		t.Errorf("whitespace password rejected: %s", msg)
	}
}

func TestValidateTags(t *testing.T) {
	got, errMsg := ValidateTags([]string{" Go ", "", "MUSIC", "go-tutorials"})
	if errMsg != "" {
		t.Fatalf("unexpected error: %s", errMsg)
	}
	want := []string{"go", "music", "go-tutorials"}
	if len(got) != len(want) {
		t.Fatalf("got %d tags, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: got %q, want %q", i, got[i], want[i])
		}
	}

	many := make([]string, 11)
	for i := range many {
		many[i] = "tag"
	}
	if _, errMsg := ValidateTags(many); errMsg == "" {
		t.Error("over-long tag list accepted")
	}
}
