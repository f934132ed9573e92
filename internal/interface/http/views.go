package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// pageRenderer executes pre-parsed page templates wrapped in the shared layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer(names ...string) (*pageRenderer, error) {
	r := &pageRenderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		tmpl, err := template.New("layout.gohtml").
			Funcs(templateFuncs()).
			ParseFS(templateFS, "templates/layout.gohtml", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// render buffers the output so a template failure never leaves a half written page.
func (r *pageRenderer) render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ayanamshaLabel": func(value birthchart.Ayanamsha) string { return value.Label() },
		"eqAyanamsha": func(selected string, option birthchart.Ayanamsha) bool {
			return selected == string(option)
		},
	}
}

// pageData feeds templates/index.gohtml.
type pageData struct {
	View        birthchart.View
	Form        birthchart.FormInput
	Rows        []birthchart.PlanetRow
	Notice      string
	CSRFField   template.HTML
	Ayanamshas  []birthchart.Ayanamsha
	Loading     string
	Unavailable string
}
