// Package views renders the HTML pages from templates embedded in the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"sync"
)

const layoutFile = "templates/layout.html"

//go:embed templates/*.html
var templatesFS embed.FS

// Engine implements fiber.Views. Every page is parsed together with the
// shared layout and rendered through it.
type Engine struct {
	mu    sync.RWMutex
	pages map[string]*template.Template
}

func New() *Engine {
	return &Engine{}
}

var funcMap = template.FuncMap{
	"lines": func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
}

func (e *Engine) Load() error {
	layout, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS, layoutFile)
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}

		page, err := template.Must(layout.Clone()).ParseFS(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		pages[name] = page
	}

	e.mu.Lock()
	e.pages = pages
	e.mu.Unlock()
	return nil
}

func (e *Engine) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	e.mu.RLock()
	page, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s does not exist", name)
	}
	return page.ExecuteTemplate(w, "layout.html", data)
}
