// Package i18n resuelve el idioma de la respuesta y traduce mensajes por clave.
//
// Idiomas soportados: en (default) y fr. El idioma sale del usuario autenticado
// (guardado en el contexto por el middleware de auth) o del header Accept-Language.
package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	EN = "en"
	FR = "fr"
)

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
	cat       = catalog.NewBuilder(catalog.Fallback(language.English))
)

type ctxKey struct{}

// WithLanguage fija el idioma preferido del request (p.ej. el del usuario).
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Normalize(lang))
}

// FromContext retorna el idioma guardado o "" si no hay.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// FromAcceptLanguage elige el mejor idioma soportado para el header dado.
func FromAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return EN
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return EN
	}
	return tagName(supported[idx])
}

// Detect: idioma del contexto si existe, si no Accept-Language.
func Detect(r *http.Request) string {
	if lang := FromContext(r.Context()); lang != "" {
		return lang
	}
	return FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

// Normalize reduce cualquier tag a en|fr.
func Normalize(lang string) string {
	t, err := language.Parse(lang)
	if err != nil {
		return EN
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return EN
	}
	return tagName(supported[idx])
}

func tagName(t language.Tag) string {
	base, _ := t.Base()
	return base.String()
}

// Register agrega traducciones para key. Se llama desde init() de los
// paquetes dueños de los mensajes.
func Register(key string, translations map[string]string) {
	for lang, msg := range translations {
		_ = cat.SetString(language.Make(lang), key, msg)
	}
}

// Translate retorna el mensaje de key en lang, o fallback si no hay traducción.
func Translate(lang, key, fallback string) string {
	p := message.NewPrinter(language.Make(Normalize(lang)), message.Catalog(cat))
	if out := p.Sprintf(key); out != key {
		return out
	}
	return fallback
}
