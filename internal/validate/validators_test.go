package validate

import (
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantValue  string
		wantReason Reason
	}{
		{"simple name", "john smith", true, "John Smith", ReasonNone},
		{"already cased", "John Smith", true, "John Smith", ReasonNone},
		{"uppercase input", "JOHN SMITH", true, "John Smith", ReasonNone},
		{"hyphenated", "mary-jane o'brien", true, "Mary-Jane O'Brien", ReasonNone},
		{"letter after apostrophe uppercased", "john o'brien", true, "John O'Brien", ReasonNone},
		{"with period", "dr. jones", true, "Dr. Jones", ReasonNone},
		{"surrounding whitespace", "  alice  ", true, "Alice", ReasonNone},
		{"two runes is the minimum", "jo", true, "Jo", ReasonNone},
		{"too short", "j", false, "", ReasonTooShort},
		{"empty", "", false, "", ReasonTooShort},
		{"whitespace only", "   ", false, "", ReasonTooShort},
		{"digits", "john123", false, "", ReasonInvalidCharacters},
		{"symbols", "john@smith", false, "", ReasonInvalidCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input)
			if got.OK != tt.wantOK {
				t.Fatalf("Name(%q).OK = %v, want %v", tt.input, got.OK, tt.wantOK)
			}
			if got.OK && got.Value != tt.wantValue {
				t.Errorf("Name(%q).Value = %q, want %q", tt.input, got.Value, tt.wantValue)
			}
			if !got.OK && got.Reason != tt.wantReason {
				t.Errorf("Name(%q).Reason = %v, want %v", tt.input, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestNameRejectionMessageStable(t *testing.T) {
	first := Name("j").Message()
	second := Name("j").Message()
	if first != second || first == "" {
		t.Errorf("rejection message not stable: %q vs %q", first, second)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOK    bool
		wantValue string
	}{
		{"plain address", "john@example.com", true, "john@example.com"},
		{"domain lowercased", "john@EXAMPLE.COM", true, "john@example.com"},
		{"trimmed", " john@example.com ", true, "john@example.com"},
		{"plus tag", "john+tag@example.com", true, "john+tag@example.com"},
		{"subdomain", "a@mail.example.co", true, "a@mail.example.co"},
		{"missing at", "johnexample.com", false, ""},
		{"missing domain dot", "john@example", false, ""},
		{"empty label", "john@example..com", false, ""},
		{"numeric tld", "john@example.123", false, ""},
		{"hyphen-edged label", "john@-example.com", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Email(tt.input)
			if got.OK != tt.wantOK {
				t.Fatalf("Email(%q).OK = %v, want %v (detail: %s)", tt.input, got.OK, tt.wantOK, got.Detail)
			}
			if got.OK && got.Value != tt.wantValue {
				t.Errorf("Email(%q).Value = %q, want %q", tt.input, got.Value, tt.wantValue)
			}
			if !got.OK {
				if got.Reason != ReasonInvalidFormat {
					t.Errorf("Email(%q).Reason = %v, want %v", tt.input, got.Reason, ReasonInvalidFormat)
				}
				if !strings.HasPrefix(got.Message(), "Invalid email address:") {
					t.Errorf("Email(%q).Message() = %q, want reason detail", tt.input, got.Message())
				}
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		region     string
		wantOK     bool
		wantPrefix string
		wantReason Reason
	}{
		{"us local format", "555-123-4567", "US", true, "+1", ReasonNone},
		{"us with parens", "(555) 123-4567", "US", true, "+1", ReasonNone},
		{"already international", "+15551234567", "US", true, "+1", ReasonNone},
		{"default region", "555-123-4567", "", true, "+1", ReasonNone},
		{"too short", "123", "US", false, "", ReasonInvalidNumber},
		{"letters", "call me maybe", "US", false, "", ReasonParseError},
		{"empty", "", "US", false, "", ReasonParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phone(tt.input, tt.region)
			if got.OK != tt.wantOK {
				t.Fatalf("Phone(%q, %q).OK = %v, want %v (reason: %v %s)", tt.input, tt.region, got.OK, tt.wantOK, got.Reason, got.Detail)
			}
			if got.OK && !strings.HasPrefix(got.Value, tt.wantPrefix) {
				t.Errorf("Phone(%q).Value = %q, want %q prefix", tt.input, got.Value, tt.wantPrefix)
			}
			if !got.OK && got.Reason != tt.wantReason {
				t.Errorf("Phone(%q).Reason = %v, want %v", tt.input, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestReasonStrings(t *testing.T) {
	reasons := []Reason{ReasonNone, ReasonEmpty, ReasonTooShort, ReasonInvalidCharacters, ReasonInvalidFormat, ReasonParseError, ReasonInvalidNumber, ReasonUnparseable}
	seen := make(map[string]bool)
	for _, r := range reasons {
		s := r.String()
		if s == "" || seen[s] {
			t.Errorf("Reason %d has empty or duplicate string %q", int(r), s)
		}
		seen[s] = true
	}
}
