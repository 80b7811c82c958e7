// Package tokens genera valores aleatorios de un solo uso: nonces de JWT,
// códigos de confirmación SSO y tokens opacos (state de OAuth).
package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// UpperAlnum es el alfabeto de nonces y códigos SSO.
const UpperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	NonceLength   = 16
	SSOCodeLength = 8
)

// RandomString devuelve n caracteres de alphabet con distribución uniforme.
func RandomString(n int, alphabet string) (string, error) {
	if n <= 0 || alphabet == "" {
		return "", fmt.Errorf("tokens: invalid length or alphabet")
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// Nonce: 16 caracteres [A-Z0-9].
func Nonce() (string, error) { return RandomString(NonceLength, UpperAlnum) }

// SSOCode: 8 caracteres [A-Z0-9].
func SSOCode() (string, error) { return RandomString(SSOCodeLength, UpperAlnum) }

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
