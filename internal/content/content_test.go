package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/daviddao/folio/internal/types"
)

var errBackend = errors.New("backend unavailable")

// fakeSource serves fixed data; fail makes the named method return errBackend.
type fakeSource struct {
	projects   []types.Project
	posts      []types.Post
	skills     []types.Skill
	categories []string
	fail       map[string]bool

	featuredLimit int
	skillsLimit   int
}

func (f *fakeSource) err(name string) error {
	if f.fail[name] {
		return errBackend
	}
	return nil
}

func (f *fakeSource) FeaturedProjects(_ context.Context, limit int) ([]types.Project, error) {
	f.featuredLimit = limit
	var out []types.Project
	for _, p := range f.projects {
		if p.Featured && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, f.err("FeaturedProjects")
}

func (f *fakeSource) Projects(context.Context) ([]types.Project, error) {
	return f.projects, f.err("Projects")
}

func (f *fakeSource) ProjectCategories(context.Context) ([]string, error) {
	return f.categories, f.err("ProjectCategories")
}

func (f *fakeSource) Project(_ context.Context, slug string) (*types.Project, error) {
	if err := f.err("Project"); err != nil {
		return nil, err
	}
	for _, p := range f.projects {
		if p.Slug.Current == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) Posts(context.Context) ([]types.Post, error) {
	return f.posts, f.err("Posts")
}

func (f *fakeSource) PostCategories(context.Context) ([]string, error) {
	return f.categories, f.err("PostCategories")
}

func (f *fakeSource) Post(_ context.Context, slug string) (*types.Post, error) {
	if err := f.err("Post"); err != nil {
		return nil, err
	}
	for _, p := range f.posts {
		if p.Slug.Current == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) TopSkills(_ context.Context, limit int) ([]types.Skill, error) {
	f.skillsLimit = limit
	return f.skills, f.err("TopSkills")
}

func (f *fakeSource) Skills(context.Context) ([]types.Skill, error) {
	return f.skills, f.err("Skills")
}

func sampleSource() *fakeSource {
	body := []types.Block{{Type: types.BlockTypeBlock, Children: []types.Span{{Text: "just a few words"}}}}
	return &fakeSource{
		projects: []types.Project{
			{ID: "1", Title: "One", Slug: types.Slug{Current: "one"}, Featured: true, Categories: []string{"web"}},
			{ID: "2", Title: "Two", Slug: types.Slug{Current: "two"}, Categories: []string{"mobile"}},
		},
		posts: []types.Post{
			{ID: "a", Title: "A", Slug: types.Slug{Current: "a"}, Body: body},
			{ID: "b", Title: "B", Slug: types.Slug{Current: "b"}, ReadingTime: "7 min read"},
		},
		skills:     []types.Skill{{ID: "go", Name: "Go", Proficiency: 90}},
		categories: []string{"web", "mobile"},
	}
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestHomeLoaded(t *testing.T) {
	src := sampleSource()
	l := NewLoader(src, nil, WithLimits(2, 5))

	h := l.Home(context.Background())

	assert.Equal(t, StateLoaded, h.State)
	require.Len(t, h.Featured, 1)
	assert.Equal(t, "one", h.Featured[0].Slug.Current)
	assert.Len(t, h.Skills, 1)
	assert.Equal(t, 2, src.featuredLimit)
	assert.Equal(t, 5, src.skillsLimit)
}

func TestHomeDefaultsLimits(t *testing.T) {
	src := sampleSource()
	NewLoader(src, nil, WithLimits(0, -1)).Home(context.Background())
	assert.Equal(t, DefaultFeaturedLimit, src.featuredLimit)
	assert.Equal(t, DefaultSkillsLimit, src.skillsLimit)
}

func TestHomeFailureDegradesToEmpty(t *testing.T) {
	src := sampleSource()
	src.fail = map[string]bool{"TopSkills": true}
	log, logs := observed()

	h := NewLoader(src, log).Home(context.Background())

	assert.Equal(t, StateFailed, h.State)
	assert.Empty(t, h.Featured)
	assert.NotNil(t, h.Featured)
	assert.Empty(t, h.Skills)

	entries := logs.FilterMessage("content fetch failed, serving empty page").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "home", entries[0].ContextMap()["page"])
}

func TestProjectsEmptyIsNotFailure(t *testing.T) {
	log, logs := observed()
	p := NewLoader(&fakeSource{}, log).Projects(context.Background())

	assert.Equal(t, StateEmpty, p.State)
	assert.NotNil(t, p.Projects)
	assert.NotNil(t, p.Categories)
	assert.Zero(t, logs.Len())
}

func TestProjectsFailure(t *testing.T) {
	src := sampleSource()
	src.fail = map[string]bool{"ProjectCategories": true}

	p := NewLoader(src, nil).Projects(context.Background())

	assert.Equal(t, StateFailed, p.State)
	assert.Empty(t, p.Projects)
	assert.Empty(t, p.Categories)
}

func TestProjectLookup(t *testing.T) {
	src := sampleSource()
	l := NewLoader(src, nil)
	ctx := context.Background()

	p, state := l.Project(ctx, "two")
	require.NotNil(t, p)
	assert.Equal(t, StateLoaded, state)
	assert.Equal(t, "Two", p.Title)

	p, state = l.Project(ctx, "missing")
	assert.Nil(t, p)
	assert.Equal(t, StateEmpty, state)

	src.fail = map[string]bool{"Project": true}
	p, state = l.Project(ctx, "two")
	assert.Nil(t, p)
	assert.Equal(t, StateFailed, state)
}

func TestBlogFillsReadingTime(t *testing.T) {
	b := NewLoader(sampleSource(), nil).Blog(context.Background())

	assert.Equal(t, StateLoaded, b.State)
	require.Len(t, b.Posts, 2)
	assert.Equal(t, "1 min read", b.Posts[0].ReadingTime)
	assert.Equal(t, "7 min read", b.Posts[1].ReadingTime)
	assert.Equal(t, []string{"web", "mobile"}, b.Categories)
}

func TestPostLookup(t *testing.T) {
	src := sampleSource()
	l := NewLoader(src, nil)
	ctx := context.Background()

	p, state := l.Post(ctx, "a")
	require.NotNil(t, p)
	assert.Equal(t, StateLoaded, state)
	assert.Equal(t, "1 min read", p.ReadingTime)

	src.fail = map[string]bool{"Post": true}
	p, state = l.Post(ctx, "a")
	assert.Nil(t, p)
	assert.Equal(t, StateFailed, state)
}

func TestAbout(t *testing.T) {
	src := sampleSource()
	a := NewLoader(src, nil).About(context.Background())
	assert.Equal(t, StateLoaded, a.State)
	assert.Len(t, a.Skills, 1)

	src.fail = map[string]bool{"Skills": true}
	a = NewLoader(src, nil).About(context.Background())
	assert.Equal(t, StateFailed, a.State)
	assert.Empty(t, a.Skills)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "March 1, 2024", FormatDate("2024-03-01T10:00:00Z"))
	assert.Equal(t, "December 31, 2023", FormatDate("2023-12-31T23:59:59.123Z"))
	assert.Equal(t, "July 4, 2022", FormatDate("2022-07-04"))
	assert.Equal(t, "someday", FormatDate("someday"))
	assert.Equal(t, "", FormatDate(""))
}
