// Package templates renders the transactional emails sent by the email worker.
package templates

import (
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

const Welcome = "welcome"

//go:embed *.tmpl
var files embed.FS

// Every email is a triple <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl, parsed once at startup.
var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(funcs()).ParseFS(files, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").Funcs(funcs()).ParseFS(files, "*.html.tmpl"))
)

// fallback backs the default pipe: {{ .Name | default "there" }}.
func fallback(def, v any) any {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return s
	}
	if v == nil || reflect.ValueOf(v).IsZero() {
		return def
	}
	return v
}

func funcs() map[string]any {
	return map[string]any{
		"default": fallback,
		"year":    func() int { return time.Now().UTC().Year() },
	}
}

// Render produces subject, plain text and HTML bodies for the named email.
func Render(name string, data any) (subject, text, html string, err error) {
	if textSet.Lookup(name+".subject.tmpl") == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var b strings.Builder
	if err = textSet.ExecuteTemplate(&b, name+".subject.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("subject %s: %w", name, err)
	}
	subject = strings.TrimSpace(b.String())

	b.Reset()
	if err = textSet.ExecuteTemplate(&b, name+".text.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("text %s: %w", name, err)
	}
	text = b.String()

	b.Reset()
	if err = htmlSet.ExecuteTemplate(&b, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("html %s: %w", name, err)
	}
	return subject, text, b.String(), nil
}
