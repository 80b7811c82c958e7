package i18n

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", EN},
		{"fr-FR,fr;q=0.9,en;q=0.8", FR},
		{"fr-CA", FR},
		{"en-US", EN},
		{"de-DE", EN},
		{"de;q=1, fr;q=0.5", FR},
		{"%%%", EN},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAcceptLanguage(tt.header))
		})
	}
}

func TestDetect_ContextWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept-Language", "en")
	assert.Equal(t, EN, Detect(r))

	r = r.WithContext(WithLanguage(context.Background(), "fr"))
	assert.Equal(t, FR, Detect(r))
}

func TestTranslate(t *testing.T) {
	Register("TEST_KEY", map[string]string{EN: "Hello", FR: "Bonjour"})

	assert.Equal(t, "Bonjour", Translate(FR, "TEST_KEY", "x"))
	assert.Equal(t, "Hello", Translate(EN, "TEST_KEY", "x"))
	assert.Equal(t, "Hello", Translate("es", "TEST_KEY", "x"))
	assert.Equal(t, "fallback", Translate(FR, "UNKNOWN_KEY", "fallback"))
}
