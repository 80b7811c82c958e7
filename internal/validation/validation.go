// Package validation agrupa los validadores de formato de entrada.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Email: local@dominio.tld, sin espacios, a lo sumo 254 caracteres.
// No intenta cubrir RFC 5322 completo.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-']+@[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)+$`)

const (
	MaxEmailLength = 254
	MaxNameLength  = 255
)

// ValidEmail returns true if the address matches the accepted pattern.
func ValidEmail(s string) bool {
	if len(s) > MaxEmailLength {
		return false
	}
	return emailRe.MatchString(s)
}

// ValidName: no vacío tras trim, sin caracteres de control, hasta MaxNameLength runas.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxNameLength {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
