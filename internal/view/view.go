// Package view renders the server-side HTML pages.
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/frahmantamala/jinzai/internal/core/calendar"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageLogin       = "login.html"
	PageDashboard   = "dashboard.html"
	PagePlaceholder = "placeholder.html"
	PageLeaves      = "leaves.html"
	PageWFH         = "wfh.html"
	PageAdmin       = "admin.html"
	PageConfirm     = "confirm.html"
	PageError       = "error.html"
)

var pages = []string{
	PageLogin,
	PageDashboard,
	PagePlaceholder,
	PageLeaves,
	PageWFH,
	PageAdmin,
	PageConfirm,
	PageError,
}

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

type Flash struct {
	Kind    FlashKind
	Message string
}

type NavItem struct {
	Key      string
	Label    string
	Path     string
	Active   bool
	Expanded bool
	Children []NavItem
}

// NavModel is the sidebar and top bar of an authenticated page.
type NavModel struct {
	Items   []NavItem
	Title   string
	IsAdmin bool
}

type Page struct {
	Title string
	Nav   NavModel
	Flash *Flash
	// Error is the page-level inline error.
	Error string
	Data  interface{}
}

type navKey struct{}

func WithNav(ctx context.Context, nav NavModel) context.Context {
	return context.WithValue(ctx, navKey{}, nav)
}

func NavFromContext(ctx context.Context) (NavModel, bool) {
	nav, ok := ctx.Value(navKey{}).(NavModel)
	return nav, ok
}

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(d calendar.Date) string {
			if d.IsZero() {
				return "-"
			}
			return d.Display()
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Placeholder is the body of a page with no content yet.
type Placeholder struct {
	Heading string
	Body    string
}

// Confirm asks the user to confirm a destructive POST.
type Confirm struct {
	Heading string
	Message string
	Action  string
	Cancel  string
	Button  string
}
