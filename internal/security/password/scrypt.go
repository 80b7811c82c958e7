// Package password deriva y verifica hashes de contraseña con scrypt.
//
// Formato almacenado: hex(salt || key), salt de 16 bytes y key de 64 bytes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// Params son los parámetros de costo de scrypt. Son constantes del formato:
// cambiarlos invalida los hashes existentes.
type Params struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// DefaultParams: N=16384, r=8, p=4, key 64 bytes, salt 16 bytes.
var DefaultParams = Params{N: 16384, R: 8, P: 4, KeyLen: 64, SaltLen: 16}

var ErrEmptyPassword = errors.New("password: empty password")

// Hasher es inmutable una vez construido; seguro para uso concurrente.
type Hasher struct {
	p Params
}

func NewHasher(p Params) *Hasher {
	return &Hasher{p: p}
}

// Hash genera un salt nuevo y devuelve hex(salt||key).
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, h.p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key, err := scrypt.Key([]byte(plain), salt, h.p.N, h.p.R, h.p.P, h.p.KeyLen)
	if err != nil {
		return "", fmt.Errorf("password: derive: %w", err)
	}
	out := make([]byte, 0, len(salt)+len(key))
	out = append(out, salt...)
	out = append(out, key...)
	return hex.EncodeToString(out), nil
}

// Verify re-deriva la key con el salt almacenado y compara en tiempo constante.
// Cualquier entrada malformada (hex inválido, largo distinto de salt+key) retorna false.
func (h *Hasher) Verify(plain, stored string) bool {
	raw, err := hex.DecodeString(stored)
	if err != nil || len(raw) != h.p.SaltLen+h.p.KeyLen {
		return false
	}
	salt, want := raw[:h.p.SaltLen], raw[h.p.SaltLen:]
	got, err := scrypt.Key([]byte(plain), salt, h.p.N, h.p.R, h.p.P, h.p.KeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
