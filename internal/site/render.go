package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/config"
	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/media"
	"github.com/daviddao/folio/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "about", "projects", "project", "blog", "post", "contact", "notfound"}

// parsePages builds one template set per page: the shared layout plus the
// page's "content" block.
func parsePages(funcs template.FuncMap) (map[string]*template.Template, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"date": content.FormatDate,
		"image": func(img types.Image, width int) string {
			return s.images.URL(img, media.Width(width), media.AutoFormat())
		},
		"body": s.body.HTML,
		"projectCategory": func(v string) string {
			return types.Title(types.ProjectCategories, v)
		},
		"postCategory": func(v string) string {
			return types.Title(types.PostCategories, v)
		},
	}
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

var navigation = []navLink{
	{Href: "/", Label: "Home"},
	{Href: "/about", Label: "About"},
	{Href: "/projects", Label: "Projects"},
	{Href: "/blog", Label: "Blog"},
	{Href: "/contact", Label: "Contact"},
}

func navFor(path string) []navLink {
	out := make([]navLink, len(navigation))
	for i, l := range navigation {
		l.Active = path == l.Href || (l.Href != "/" && strings.HasPrefix(path, l.Href+"/"))
		out[i] = l
	}
	return out
}

// page is the data every template receives.
type page struct {
	Title       string
	Description string
	Path        string
	Site        config.SiteConfig
	Nav         []navLink
	Year        int
	State       string
	// Refresh, when positive, reloads Path after that many seconds.
	Refresh int
	Data    any
}

func (s *Server) newPage(r *http.Request, title string, state content.State, data any) page {
	return page{
		Title:       title,
		Description: s.site.Description,
		Path:        r.URL.Path,
		Site:        s.site,
		Nav:         navFor(r.URL.Path),
		Year:        time.Now().Year(),
		State:       state.String(),
		Data:        data,
	}
}

// titled appends the owner's name to a page title.
func (s *Server) titled(title string) string {
	if s.site.Owner == "" {
		return title
	}
	return title + " | " + s.site.Owner
}

// render executes the page into a buffer so a template error never leaves
// a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", p); err != nil {
		s.log.Error("render page failed", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.State != "" {
		w.Header().Set(StateHeader, p.State)
	}
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, heading string, state string) {
	p := s.newPage(r, s.titled(heading), content.StateEmpty, heading)
	p.State = state
	s.render(w, http.StatusNotFound, "notfound", p)
}
