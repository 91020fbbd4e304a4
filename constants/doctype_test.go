package constants

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want DocType
		ok   bool
	}{
		{"Invoice", Invoice, true},
		{"invoice", Invoice, true},
		{"  RESUME  ", Resume, true},
		{"bill", Invoice, true},
		{"receipt", Invoice, true},
		{"cv", Resume, true},
		{"medical record", MedicalReport, true},
		{"lease", Contract, true},
		{"unknown", Unknown, true},
		{"", Unknown, false},
		{"newspaper", Unknown, false},
	}
	for _, tt := range tests {
		got, ok := Canonicalize(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonicalize(%q) = (%s, %v), want (%s, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
