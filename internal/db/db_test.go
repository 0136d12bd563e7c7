package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddao/folio/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "nested", "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func project(id string, featured bool, cats ...string) types.Project {
	return types.Project{
		ID:         id,
		Title:      "Project " + id,
		Slug:       types.Slug{Current: id},
		Featured:   featured,
		Categories: cats,
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	d := openTestDB(t)
	assert.FileExists(t, d.Path())
}

func TestReplaceProjectsRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	full := types.Project{
		ID:           "p1",
		Title:        "Folio",
		Slug:         types.Slug{Current: "folio"},
		Featured:     true,
		MainImage:    types.Image{Asset: &types.Reference{Ref: "image-abc-800x600-png"}, Alt: "cover"},
		Categories:   []string{"web", "backend"},
		Description:  "A portfolio",
		Body:         []types.Block{{Type: types.BlockTypeBlock, Style: types.StyleNormal, Children: []types.Span{{Text: "hi"}}}},
		GithubLink:   "https://github.com/example/folio",
		LiveLink:     "https://example.com",
		Technologies: []string{"Go", "SQLite"},
	}
	_, err := d.ReplaceProjects(ctx, []types.Project{full})
	require.NoError(t, err)

	got, err := d.Project(ctx, "folio")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(full, *got); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectMissingReturnsNil(t *testing.T) {
	d := openTestDB(t)
	got, err := d.Project(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProjectsOrderAndFeatured(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.ReplaceProjects(ctx, []types.Project{
		project("a", false, "web"),
		project("b", true, "mobile"),
		project("c", false, "design", "web"),
		project("d", true),
		project("e", true, "backend"),
	})
	require.NoError(t, err)

	all, err := d.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, projectIDs(all))

	featured, err := d.FeaturedProjects(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, projectIDs(featured))

	cats, err := d.ProjectCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mobile", "backend", "web", "design"}, cats)
}

func TestReplaceProjectsPrunesMissing(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.ReplaceProjects(ctx, []types.Project{project("a", false), project("b", false), project("c", false)})
	require.NoError(t, err)

	removed, err := d.ReplaceProjects(ctx, []types.Project{project("b", false)})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := d.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, projectIDs(all))

	removed, err = d.ReplaceProjects(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	all, err = d.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestPostsJoinAuthorAndOrder(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.ReplaceAuthors(ctx, []types.Author{{
		ID:    "author-1",
		Name:  "Ada",
		Image: types.Image{Asset: &types.Reference{Ref: "image-face-100x100-jpg"}},
	}})
	require.NoError(t, err)

	_, err = d.ReplacePosts(ctx, []types.Post{
		{ID: "old", Title: "Old", Slug: types.Slug{Current: "old"}, PublishedAt: "2023-01-05T10:00:00Z", Categories: []string{"go"}, Author: types.Author{ID: "author-1"}},
		{ID: "new", Title: "New", Slug: types.Slug{Current: "new"}, PublishedAt: "2024-03-01T10:00:00Z", Categories: []string{"design", "go"}},
	})
	require.NoError(t, err)

	posts, err := d.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
	assert.Empty(t, posts[0].Author.Name)
	assert.Equal(t, "Ada", posts[1].Author.Name)
	assert.Equal(t, "image-face-100x100-jpg", posts[1].Author.Image.Asset.Ref)

	cats, err := d.PostCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "go"}, cats)

	post, err := d.Post(ctx, "old")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Old", post.Title)
}

func TestSkillsOrdering(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.ReplaceSkills(ctx, []types.Skill{
		{ID: "go", Name: "Go", Proficiency: 90, Category: types.SkillBackend, DisplayOrder: 2},
		{ID: "css", Name: "CSS", Proficiency: 70, Category: types.SkillFrontend, DisplayOrder: 1},
		{ID: "sql", Name: "SQL", Proficiency: 95, Category: types.SkillDatabase},
	})
	require.NoError(t, err)

	top, err := d.TopSkills(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sql", "go"}, skillIDs(top))

	all, err := d.Skills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"css", "go", "sql"}, skillIDs(all))
	assert.Equal(t, types.DefaultDisplayOrder, all[2].DisplayOrder)
}

func TestContactInbox(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	first := &types.ContactMessage{ID: "m1", Name: "A", Email: "a@b.co", Subject: "Hi", Message: "Hello there!", CreatedAt: "2024-01-01T00:00:00Z"}
	second := &types.ContactMessage{ID: "m2", Name: "B", Email: "b@b.co", Subject: "Yo", Message: "Another note", RemoteAddr: "10.0.0.1"}
	require.NoError(t, d.InsertContactMessage(ctx, first))
	require.NoError(t, d.InsertContactMessage(ctx, second))
	assert.NotEmpty(t, second.CreatedAt)

	msgs, err := d.ListContactMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "10.0.0.1", msgs[0].RemoteAddr)

	limited, err := d.ListContactMessages(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, d.MarkNotified(ctx, "m1", errors.New("quota exceeded")))
	got, err := d.ContactMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "quota exceeded", got.NotifyError)
	assert.Empty(t, got.NotifiedAt)

	require.NoError(t, d.MarkNotified(ctx, "m1", nil))
	got, err = d.ContactMessage(ctx, "m1")
	require.NoError(t, err)
	assert.NotEmpty(t, got.NotifiedAt)
	assert.Empty(t, got.NotifyError)

	assert.Error(t, d.MarkNotified(ctx, "missing", nil))

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Messages)
	assert.Equal(t, 1, counts.Unnotified)
}

func TestCounts(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	counts, err := d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, *counts)

	_, err = d.ReplaceProjects(ctx, []types.Project{project("a", true)})
	require.NoError(t, err)

	counts, err = d.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Projects)
	assert.NotEmpty(t, counts.LastSynced)
}

func projectIDs(ps []types.Project) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func skillIDs(ss []types.Skill) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}
