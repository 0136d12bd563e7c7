package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daviddao/folio/internal/filter"
	"github.com/daviddao/folio/internal/types"
)

// Filter labels for the All option.
const (
	AllProjectsLabel = "All Projects"
	AllPostsLabel    = "All Posts"
	AllSkillsLabel   = "All Skills"
)

type projectsView struct {
	Options  []filter.Option
	Projects []types.Project
	Total    int
}

type blogView struct {
	Options []filter.Option
	Posts   []types.Post
	Total   int
}

type aboutView struct {
	Options []filter.Option
	Skills  []types.Skill
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home := s.loader.Home(r.Context())
	title := s.site.Title
	if s.site.Owner != "" {
		title = s.site.Owner + " | " + s.site.Title
	}
	s.render(w, http.StatusOK, "home", s.newPage(r, title, home.State, home))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	about := s.loader.About(r.Context())
	view := filter.NewView(about.Skills)
	view.Select(r.URL.Query().Get("category"))

	data := aboutView{
		Options: filter.Options(view.Selection(), AllSkillsLabel, skillTabs(about.Skills), func(v string) string {
			return types.Title(types.SkillCategories, v)
		}),
		Skills: view.Visible(),
	}
	s.render(w, http.StatusOK, "about", s.newPage(r, s.titled("About"), about.State, data))
}

// skillTabs returns the known skill categories in use, in display order.
func skillTabs(skills []types.Skill) []string {
	used := make(map[string]bool)
	for _, c := range filter.Unique(skills) {
		used[c] = true
	}
	var tabs []string
	for _, o := range types.SkillCategories {
		if used[o.Value] {
			tabs = append(tabs, o.Value)
		}
	}
	return tabs
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	list := s.loader.Projects(r.Context())
	view := filter.NewView(list.Projects)
	view.Select(r.URL.Query().Get("category"))

	data := projectsView{
		Options: filter.Options(view.Selection(), AllProjectsLabel, list.Categories, func(v string) string {
			return types.Title(types.ProjectCategories, v)
		}),
		Projects: view.Visible(),
		Total:    len(view.Items()),
	}
	p := s.newPage(r, s.titled("Projects"), list.State, data)
	p.Description = "A collection of my projects and work."
	s.render(w, http.StatusOK, "projects", p)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	project, state := s.loader.Project(r.Context(), chi.URLParam(r, "slug"))
	if project == nil {
		s.notFound(w, r, "Project Not Found", state.String())
		return
	}
	p := s.newPage(r, s.titled(project.Title), state, project)
	if project.Description != "" {
		p.Description = project.Description
	}
	s.render(w, http.StatusOK, "project", p)
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	list := s.loader.Blog(r.Context())
	view := filter.NewView(list.Posts)
	view.Select(r.URL.Query().Get("category"))

	data := blogView{
		Options: filter.Options(view.Selection(), AllPostsLabel, list.Categories, func(v string) string {
			return types.Title(types.PostCategories, v)
		}),
		Posts: view.Visible(),
		Total: len(view.Items()),
	}
	p := s.newPage(r, s.titled("Blog"), list.State, data)
	p.Description = "Articles and thoughts on development and technology."
	s.render(w, http.StatusOK, "blog", p)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post, state := s.loader.Post(r.Context(), chi.URLParam(r, "slug"))
	if post == nil {
		s.notFound(w, r, "Post Not Found", state.String())
		return
	}
	p := s.newPage(r, s.titled(post.Title), state, post)
	if post.Excerpt != "" {
		p.Description = post.Excerpt
	}
	s.render(w, http.StatusOK, "post", p)
}
