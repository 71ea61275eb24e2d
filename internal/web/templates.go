package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/price"
	webembed "github.com/Violet4Cheetha/KhushiiWithDiamond/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleEditor:
				return "Editor"
			default:
				return role
			}
		},
		"money": func(v float64) string {
			return "₹" + humanize.CommafWithDigits(v, 2)
		},
		"ago": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return humanize.Time(t)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"storefront.html",
		"shop_category.html",
		"login.html",
		"categories.html",
		"category_form.html",
		"category_delete.html",
		"items.html",
		"settings.html",
		"users.html",
		"error.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with a non-200 status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Price   price.State
	Error   string
	Success string
}

// Prices is the read side of the gold price poller.
type Prices interface {
	State() price.State
	SetFallback(float64)
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sqlx.DB
	Templates *Templates
	Tokens    *auth.Tokens
	Prices    Prices
}

// page returns the base page data for r.
func (s *Server) page(r *http.Request, title string) PageData {
	return PageData{
		Title: title,
		User:  GetWebClaims(r.Context()),
		Price: s.Prices.State(),
	}
}

// renderError shows a full-page error.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := s.page(r, http.StatusText(status))
	data.Error = message
	s.Templates.RenderStatus(w, status, "error.html", &data)
}
