package util

import (
	"strings"
	"testing"
)

func TestValidateHostname_Valid(t *testing.T) {
	valid := []string{
		"host",
		"dc1",
		"dc1.east",
		"example.net",
		"a",
		"UPPERCASE",
		"srv-01",
		strings.Repeat("a", 63),
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateHostname("label", name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateHostname_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "must not be empty"},
		{"-host", "must not start or end with a hyphen"},
		{"host-", "must not start or end with a hyphen"},
		{"dc1..east", "empty label"},
		{".example.net", "empty label"},
		{"example.net.", "empty label"},
		{strings.Repeat("a", 64), "longer than 63"},
		{"host name", "invalid characters"},
		{"name_with_underscores", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname("label", tt.name)
			if err == nil {
				t.Fatalf("expected %q to be invalid, got nil", tt.name)
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
			if !strings.HasPrefix(err.Error(), "label") {
				t.Errorf("expected error to name the field, got %q", err.Error())
			}
		})
	}
}
