package email

import (
	"bytes"
	"embed"
	"fmt"
	htemplate "html/template"
	ttemplate "text/template"
)

// Nombres de template.
const (
	TemplateTestEmail     = "test_email"
	TemplateNewAccount    = "new_account"
	TemplateResetPassword = "reset_password"
)

//go:embed templates/*.html templates/*.txt
var templatesFS embed.FS

var subjects = map[string]string{
	TemplateTestEmail:     "{{.project_name}} - Test email",
	TemplateNewAccount:    "{{.project_name}} - New account for {{.email}}",
	TemplateResetPassword: "{{.project_name}} - Password recovery for {{.email}}",
}

// Renderer compila los templates embebidos una sola vez.
type Renderer struct {
	html    *htemplate.Template
	text    *ttemplate.Template
	subject *ttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	h, err := htemplate.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("email: parse html templates: %w", err)
	}
	t, err := ttemplate.ParseFS(templatesFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("email: parse text templates: %w", err)
	}
	s := ttemplate.New("subjects")
	for name, src := range subjects {
		if _, err := s.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("email: parse subject %s: %w", name, err)
		}
	}
	return &Renderer{html: h, text: t, subject: s}, nil
}

// Render retorna subject, html y texto para el template name.
func (r *Renderer) Render(name string, vars map[string]any) (subject, html, text string, err error) {
	if r.subject.Lookup(name) == nil {
		return "", "", "", fmt.Errorf("email: unknown template %q", name)
	}
	var sb, hb, tb bytes.Buffer
	if err = r.subject.ExecuteTemplate(&sb, name, vars); err != nil {
		return "", "", "", fmt.Errorf("email: render subject: %w", err)
	}
	if err = r.html.ExecuteTemplate(&hb, name+".html", vars); err != nil {
		return "", "", "", fmt.Errorf("email: render html: %w", err)
	}
	if err = r.text.ExecuteTemplate(&tb, name+".txt", vars); err != nil {
		return "", "", "", fmt.Errorf("email: render text: %w", err)
	}
	return sb.String(), hb.String(), tb.String(), nil
}
