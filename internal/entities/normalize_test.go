package entities

import (
	"testing"

	"docpipe/constants"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-05", "2024-03-05", true},
		{"03/05/2024", "2024-03-05", true},
		{"3/5/2024", "2024-03-05", true},
		{"03-05-2024", "2024-03-05", true},
		{"03.05.2024", "2024-03-05", true},
		{"March 5, 2024", "2024-03-05", true},
		{"Mar 5, 2024", "2024-03-05", true},
		{"Mar. 5, 2024", "2024-03-05", true},
		{"13/32/2024", "", false},
		{"yesterday", "", false},
	}
	for _, tt := range tests {
		got, ok := normalize(constants.EntityDate, tt.in)
		if ok != tt.ok {
			t.Errorf("normalize date %q ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("normalize date %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"$100", "USD 100.00", true},
		{"$ 1,234.56", "USD 1234.56", true},
		{"USD $100.00", "USD 100.00", true},
		{"£42.50", "GBP 42.50", true},
		{"€9.99", "EUR 9.99", true},
		{"$", "", false},
		{"$abc", "", false},
	}
	for _, tt := range tests {
		got, ok := normalize(constants.EntityMoney, tt.in)
		if ok != tt.ok {
			t.Errorf("normalize amount %q ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("normalize amount %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, ok := normalize(constants.EntityEmail, "Jane.Doe@Example.COM")
	if !ok || got != "jane.doe@example.com" {
		t.Errorf("email lowercasing: got %q ok=%v", got, ok)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(555) 123-4567", "5551234567", true},
		{"555-123-4567", "5551234567", true},
		{"+1 555 123 4567", "+15551234567", true},
		{"12345", "", false},
	}
	for _, tt := range tests {
		got, ok := normalize(constants.EntityPhone, tt.in)
		if ok != tt.ok {
			t.Errorf("normalize phone %q ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("normalize phone %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}
