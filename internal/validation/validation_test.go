package validation

import (
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	valids := []string{
		"a@x.com",
		"first.last+tag@sub.example.org",
		"o'neil@example.fr",
	}
	for _, v := range valids {
		if !ValidEmail(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}

	invalids := []string{
		"",
		"plain",
		"a@x",      // sin tld
		"a @x.com", // espacio
		"@x.com",   // sin local
		"a@-x.com", // label inicia con guion
		"a@x..com", // label vacío
		strings.Repeat("a", 250) + "@x.com",
	}
	for _, v := range invalids {
		if ValidEmail(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidName(t *testing.T) {
	if !ValidName("Groceries") || !ValidName("  café  ") {
		t.Fatal("expected valid names")
	}
	for _, v := range []string{"", "   ", "bad\nname", strings.Repeat("x", MaxNameLength+1)} {
		if ValidName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}
