// Package content loads the data behind each page. Fetch failures never reach
// the visitor: they are logged and replaced by empty data, and the returned
// State records which of the two happened.
package content

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviddao/folio/internal/portable"
	"github.com/daviddao/folio/internal/types"
)

// Source is a read-only content store. Lookups by slug return nil, nil when
// nothing matches.
type Source interface {
	FeaturedProjects(ctx context.Context, limit int) ([]types.Project, error)
	Projects(ctx context.Context) ([]types.Project, error)
	ProjectCategories(ctx context.Context) ([]string, error)
	Project(ctx context.Context, slug string) (*types.Project, error)
	Posts(ctx context.Context) ([]types.Post, error)
	PostCategories(ctx context.Context) ([]string, error)
	Post(ctx context.Context, slug string) (*types.Post, error)
	TopSkills(ctx context.Context, limit int) ([]types.Skill, error)
	Skills(ctx context.Context) ([]types.Skill, error)
}

// State tells a loaded page apart from an empty one and a failed one.
type State int

const (
	StateLoaded State = iota
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Default limits for the home page.
const (
	DefaultFeaturedLimit = 3
	DefaultSkillsLimit   = 12
)

// Home is the data behind the landing page.
type Home struct {
	Featured []types.Project
	Skills   []types.Skill
	State    State
}

// ProjectList is the data behind the projects page.
type ProjectList struct {
	Projects   []types.Project
	Categories []string
	State      State
}

// PostList is the data behind the blog page.
type PostList struct {
	Posts      []types.Post
	Categories []string
	State      State
}

// About is the data behind the about page.
type About struct {
	Skills []types.Skill
	State  State
}

// Loader runs the page queries against a Source.
type Loader struct {
	src           Source
	log           *zap.Logger
	featuredLimit int
	skillsLimit   int
	timeout       time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithLimits sets the home page limits. Non-positive values keep the defaults.
func WithLimits(featured, skills int) Option {
	return func(l *Loader) {
		if featured > 0 {
			l.featuredLimit = featured
		}
		if skills > 0 {
			l.skillsLimit = skills
		}
	}
}

// WithTimeout bounds each page load.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// NewLoader returns a loader reading from src. log may be nil.
func NewLoader(src Source, log *zap.Logger, opts ...Option) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loader{
		src:           src,
		log:           log.Named("content"),
		featuredLimit: DefaultFeaturedLimit,
		skillsLimit:   DefaultSkillsLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout > 0 {
		return context.WithTimeout(ctx, l.timeout)
	}
	return context.WithCancel(ctx)
}

// Home loads featured projects and top skills.
func (l *Loader) Home(ctx context.Context) Home {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	var h Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		h.Featured, err = l.src.FeaturedProjects(gctx, l.featuredLimit)
		return err
	})
	g.Go(func() (err error) {
		h.Skills, err = l.src.TopSkills(gctx, l.skillsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		l.failed("home", err)
		return Home{Featured: []types.Project{}, Skills: []types.Skill{}, State: StateFailed}
	}
	h.Featured = nonNil(h.Featured)
	h.Skills = nonNil(h.Skills)
	h.State = stateOf(len(h.Featured) + len(h.Skills))
	return h
}

// Projects loads every project and the distinct project categories.
func (l *Loader) Projects(ctx context.Context) ProjectList {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	var p ProjectList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.Projects, err = l.src.Projects(gctx)
		return err
	})
	g.Go(func() (err error) {
		p.Categories, err = l.src.ProjectCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.failed("projects", err)
		return ProjectList{Projects: []types.Project{}, Categories: []string{}, State: StateFailed}
	}
	p.Projects = nonNil(p.Projects)
	p.Categories = nonNil(p.Categories)
	p.State = stateOf(len(p.Projects))
	return p
}

// Project loads one project. A nil project with StateEmpty means not found.
func (l *Loader) Project(ctx context.Context, slug string) (*types.Project, State) {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	p, err := l.src.Project(ctx, slug)
	if err != nil {
		l.failed("project", err, zap.String("slug", slug))
		return nil, StateFailed
	}
	if p == nil {
		return nil, StateEmpty
	}
	return p, StateLoaded
}

// Blog loads every post and the distinct post categories.
func (l *Loader) Blog(ctx context.Context) PostList {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	var b PostList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Posts, err = l.src.Posts(gctx)
		return err
	})
	g.Go(func() (err error) {
		b.Categories, err = l.src.PostCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.failed("blog", err)
		return PostList{Posts: []types.Post{}, Categories: []string{}, State: StateFailed}
	}
	b.Posts = nonNil(b.Posts)
	b.Categories = nonNil(b.Categories)
	for i := range b.Posts {
		fillReadingTime(&b.Posts[i])
	}
	b.State = stateOf(len(b.Posts))
	return b
}

// Post loads one post. A nil post with StateEmpty means not found.
func (l *Loader) Post(ctx context.Context, slug string) (*types.Post, State) {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	p, err := l.src.Post(ctx, slug)
	if err != nil {
		l.failed("post", err, zap.String("slug", slug))
		return nil, StateFailed
	}
	if p == nil {
		return nil, StateEmpty
	}
	fillReadingTime(p)
	return p, StateLoaded
}

// About loads every skill in display order.
func (l *Loader) About(ctx context.Context) About {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	skills, err := l.src.Skills(ctx)
	if err != nil {
		l.failed("about", err)
		return About{Skills: []types.Skill{}, State: StateFailed}
	}
	skills = nonNil(skills)
	return About{Skills: skills, State: stateOf(len(skills))}
}

func (l *Loader) failed(page string, err error, fields ...zap.Field) {
	l.log.Error("content fetch failed, serving empty page",
		append([]zap.Field{zap.String("page", page), zap.Error(err)}, fields...)...)
}

// fillReadingTime estimates the reading time of posts that were not given one.
func fillReadingTime(p *types.Post) {
	if p.ReadingTime == "" && len(p.Body) > 0 {
		p.ReadingTime = portable.ReadingTime(p.Body)
	}
}

func stateOf(n int) State {
	if n == 0 {
		return StateEmpty
	}
	return StateLoaded
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FormatDate renders a CMS timestamp as "January 2, 2006". Unparseable
// values are returned as given.
func FormatDate(iso string) string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return iso
}
