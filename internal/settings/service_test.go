package settings

import (
	"testing"
)

func TestNormalizeWhatsAppNumber(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"5511999999999", "5511999999999", false},
		{"+55 (11) 99999-9999", "5511999999999", false},
		{"11 3456-7890", "1134567890", false},
		{"123456789", "", true},
		{"", "", true},
		{"telefone", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeWhatsAppNumber(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeWhatsAppNumber(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeWhatsAppNumber(%q) unexpected error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeWhatsAppNumber(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
