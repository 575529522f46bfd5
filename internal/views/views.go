// Package views renders the client's pages. It implements fiber.Views over
// html/template with the templates embedded in the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"bankloan-web/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Engine holds one template set per page, each parsed together with the
// layout.
type Engine struct {
	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New creates an engine; fiber calls Load on startup
func New() *Engine {
	return &Engine{}
}

// Load parses every page
func (e *Engine) Load() error {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		pages[name] = t
	}

	e.mu.Lock()
	e.pages = pages
	e.mu.Unlock()
	return nil
}

// Render executes page name. With a layout the page's "content" block is
// rendered inside it.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, layout ...string) error {
	e.mu.RLock()
	t, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	if len(layout) > 0 && layout[0] != "" {
		return t.ExecuteTemplate(w, layout[0], binding)
	}
	return t.ExecuteTemplate(w, "content", binding)
}

// Static serves the embedded stylesheet
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var funcs = template.FuncMap{
	"money": func(a domain.Amount) string {
		return "$" + a.String()
	},
	"percent": func(l domain.LoanAgreement) string {
		p := math.Round(l.InterestPercent()*1e4) / 1e4
		return strconv.FormatFloat(p, 'f', -1, 64) + "%"
	},
	"status": func(approved bool) string {
		if approved {
			return "Approved"
		}
		return "Pending"
	},
	"roles": func() []domain.Role {
		return domain.Roles
	},
}
