package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/config"
	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/db"
	"github.com/daviddao/folio/internal/types"
)

var errDown = errors.New("cms down")

func openDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func seed(t *testing.T, d *db.DB) {
	t.Helper()
	ctx := context.Background()
	_, err := d.ReplaceProjects(ctx, []types.Project{
		{ID: "p1", Title: "Storefront", Slug: types.Slug{Current: "storefront"}, Featured: true,
			Categories: []string{"web"}, Description: "An online shop.", Technologies: []string{"Go"}},
		{ID: "p2", Title: "Pocket Planner", Slug: types.Slug{Current: "pocket-planner"},
			Categories: []string{"mobile"}, Description: "A planner app."},
	})
	require.NoError(t, err)
	_, err = d.ReplacePosts(ctx, []types.Post{
		{ID: "b1", Title: "Hello Go", Slug: types.Slug{Current: "hello-go"}, PublishedAt: "2024-03-05T10:00:00Z",
			Categories: []string{"web-dev"}, Excerpt: "First post.",
			Body: []types.Block{{Type: types.BlockTypeBlock, Style: types.StyleNormal,
				Children: []types.Span{{Text: "Hello from the blog", Marks: []string{types.MarkStrong}}}}}},
	})
	require.NoError(t, err)
	_, err = d.ReplaceSkills(ctx, []types.Skill{
		{ID: "s1", Name: "Go", Proficiency: 90, Category: types.SkillBackend},
		{ID: "s2", Name: "Vim", Proficiency: 70, Category: types.SkillTools},
	})
	require.NoError(t, err)
}

// downSource fails every query.
type downSource struct{}

func (downSource) FeaturedProjects(context.Context, int) ([]types.Project, error) {
	return nil, errDown
}
func (downSource) Projects(context.Context) ([]types.Project, error) { return nil, errDown }
func (downSource) ProjectCategories(context.Context) ([]string, error) { return nil, errDown }
func (downSource) Project(context.Context, string) (*types.Project, error) { return nil, errDown }
func (downSource) Posts(context.Context) ([]types.Post, error) { return nil, errDown }
func (downSource) PostCategories(context.Context) ([]string, error) { return nil, errDown }
func (downSource) Post(context.Context, string) (*types.Post, error) { return nil, errDown }
func (downSource) TopSkills(context.Context, int) ([]types.Skill, error) { return nil, errDown }
func (downSource) Skills(context.Context) ([]types.Skill, error) { return nil, errDown }

// brokenInbox cannot store anything.
type brokenInbox struct{}

func (brokenInbox) InsertContactMessage(context.Context, *types.ContactMessage) error {
	return errors.New("disk full")
}
func (brokenInbox) MarkNotified(context.Context, string, error) error { return nil }

type fakeNotifier struct {
	sent chan *types.ContactMessage
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, m *types.ContactMessage) error {
	f.sent <- m
	return f.err
}

func newServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Site.Owner == "" {
		opts.Site = config.SiteConfig{Title: "Portfolio", Owner: "Ada Lovelace", GitHub: "https://github.com/ada"}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func serverWithDB(t *testing.T, seeded bool) (*Server, *db.DB) {
	t.Helper()
	d := openDB(t)
	if seeded {
		seed(t, d)
	}
	s := newServer(t, Options{Loader: content.NewLoader(d, zap.NewNop()), Inbox: d})
	return s, d
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresLoaderAndInbox(t *testing.T) {
	_, err := New(Options{Inbox: brokenInbox{}})
	assert.Error(t, err)
	_, err = New(Options{Loader: content.NewLoader(downSource{}, zap.NewNop())})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	s, _ := serverWithDB(t, false)
	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHomePage(t *testing.T) {
	s, _ := serverWithDB(t, true)
	rec := get(t, s.Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loaded", rec.Header().Get(StateHeader))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Ada Lovelace | Portfolio</title>")
	assert.Contains(t, body, "Storefront")
	assert.NotContains(t, body, "Pocket Planner", "only featured projects on the home page")
	assert.Contains(t, body, `<a href="/" aria-current="page">Home</a>`)
	assert.Contains(t, body, "https://github.com/ada")
}

func TestProjectsPageFilters(t *testing.T) {
	s, _ := serverWithDB(t, true)
	h := s.Handler()

	rec := get(t, h, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Projects | Ada Lovelace</title>")
	assert.Contains(t, body, AllProjectsLabel)
	assert.Contains(t, body, "Web Development")
	assert.Contains(t, body, "Mobile App")
	assert.Contains(t, body, "Storefront")
	assert.Contains(t, body, "Pocket Planner")

	rec = get(t, h, "/projects?category=mobile")
	body = rec.Body.String()
	assert.Contains(t, body, "Pocket Planner")
	assert.NotContains(t, body, "Storefront")
	assert.Contains(t, body, `<a href="?category=mobile" aria-current="true">Mobile App</a>`)

	rec = get(t, h, "/projects?category=backend")
	assert.Contains(t, rec.Body.String(), "No projects found in this category. Try selecting a different category.")
}

func TestProjectsPageEmpty(t *testing.T) {
	s, _ := serverWithDB(t, false)
	rec := get(t, s.Handler(), "/projects")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty", rec.Header().Get(StateHeader))
	assert.Contains(t, rec.Body.String(), "Projects Coming Soon")
	assert.NotContains(t, rec.Body.String(), AllProjectsLabel)
}

func TestFailedContentRendersEmptyPage(t *testing.T) {
	d := openDB(t)
	s := newServer(t, Options{Loader: content.NewLoader(downSource{}, zap.NewNop()), Inbox: d})
	h := s.Handler()

	for _, path := range []string{"/", "/about", "/projects", "/blog"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "failed", rec.Header().Get(StateHeader), path)
	}
	assert.Contains(t, get(t, h, "/blog").Body.String(), "Blog Posts Coming Soon")

	rec := get(t, h, "/projects/storefront")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "failed", rec.Header().Get(StateHeader))
}

func TestProjectDetail(t *testing.T) {
	s, _ := serverWithDB(t, true)
	h := s.Handler()

	rec := get(t, h, "/projects/storefront")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Storefront | Ada Lovelace</title>")
	assert.Contains(t, body, `<meta name="description" content="An online shop.">`)
	assert.Contains(t, body, "<li>Web Development</li>")
	assert.Contains(t, body, "Technologies Used")

	rec = get(t, h, "/projects/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project Not Found")
	assert.Equal(t, "empty", rec.Header().Get(StateHeader))
}

func TestBlogAndPost(t *testing.T) {
	s, _ := serverWithDB(t, true)
	h := s.Handler()

	rec := get(t, h, "/blog")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, AllPostsLabel)
	assert.Contains(t, body, "March 5, 2024")
	assert.Contains(t, body, "1 min read")

	rec = get(t, h, "/blog?category=react")
	assert.Contains(t, rec.Body.String(), "No posts found in this category. Try selecting a different category.")

	rec = get(t, h, "/blog/hello-go")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "<strong>Hello from the blog</strong>")
	assert.Contains(t, body, `<meta name="description" content="First post.">`)
	assert.Contains(t, body, `<a href="/blog" aria-current="page">Blog</a>`)

	rec = get(t, h, "/blog/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post Not Found")
}

func TestAboutSkillTabs(t *testing.T) {
	s, _ := serverWithDB(t, true)
	h := s.Handler()

	body := get(t, h, "/about").Body.String()
	assert.Contains(t, body, AllSkillsLabel)
	assert.Contains(t, body, `<a href="?category=backend">Backend</a>`)
	assert.Contains(t, body, `<a href="?category=tools">Tools</a>`)
	assert.NotContains(t, body, `?category=frontend`)

	body = get(t, h, "/about?category=tools").Body.String()
	assert.Contains(t, body, "Vim")
	assert.NotContains(t, body, "<span>Go</span>")
}

func TestUnknownRoute(t *testing.T) {
	s, _ := serverWithDB(t, false)
	rec := get(t, s.Handler(), "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
	assert.Empty(t, rec.Header().Get(StateHeader))
}

const validJSON = `{"name":"Grace","email":"grace@example.com","subject":"Hello","message":"Would love to chat sometime."}`

func TestContactAPIStoresAndNotifies(t *testing.T) {
	d := openDB(t)
	n := &fakeNotifier{sent: make(chan *types.ContactMessage, 1)}
	s := newServer(t, Options{Loader: content.NewLoader(d, zap.NewNop()), Inbox: d, Notifier: n})

	rec := postJSON(s.Handler(), validJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	select {
	case m := <-n.sent:
		assert.Equal(t, resp.ID, m.ID)
		assert.Equal(t, "Hello", m.Subject)
	case <-time.After(5 * time.Second):
		t.Fatal("owner was not notified")
	}
	s.Wait()

	m, err := d.ContactMessage(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "grace@example.com", m.Email)
	assert.NotEmpty(t, m.NotifiedAt)
	assert.Empty(t, m.NotifyError)
}

func TestContactAPIRecordsNotifyFailure(t *testing.T) {
	d := openDB(t)
	n := &fakeNotifier{sent: make(chan *types.ContactMessage, 1), err: errors.New("quota exceeded")}
	s := newServer(t, Options{Loader: content.NewLoader(d, zap.NewNop()), Inbox: d, Notifier: n})

	rec := postJSON(s.Handler(), validJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	<-n.sent
	s.Wait()

	msgs, err := d.ListContactMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].NotifiedAt)
	assert.Contains(t, msgs[0].NotifyError, "quota exceeded")
}

func TestContactAPIValidation(t *testing.T) {
	s, d := serverWithDB(t, false)
	rec := postJSON(s.Handler(), `{"name":"","email":"nope","subject":"Hi","message":"short"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{
		"name":    contact.MsgNameRequired,
		"email":   contact.MsgEmailInvalid,
		"message": contact.MsgMessageTooShort,
	}, resp.Errors)

	msgs, err := d.ListContactMessages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestContactAPIBadJSON(t *testing.T) {
	s, _ := serverWithDB(t, false)
	rec := postJSON(s.Handler(), `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactAPIStoreFailure(t *testing.T) {
	s := newServer(t, Options{Loader: content.NewLoader(downSource{}, zap.NewNop()), Inbox: brokenInbox{}})
	rec := postJSON(s.Handler(), validJSON)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), contact.FailureMessage)
}

func TestContactAPIRateLimit(t *testing.T) {
	d := openDB(t)
	s := newServer(t, Options{
		Loader: content.NewLoader(d, zap.NewNop()), Inbox: d,
		ContactPerMinute: 1, ContactBurst: 1,
	})
	h := s.Handler()

	assert.Equal(t, http.StatusCreated, postJSON(h, validJSON).Code)
	rec := postJSON(h, validJSON)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgTooManyRequests)
}

func TestContactFormPage(t *testing.T) {
	s, _ := serverWithDB(t, false)
	rec := get(t, s.Handler(), "/contact")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Contact | Ada Lovelace</title>")
	assert.Contains(t, body, `<button type="submit">Send Message</button>`)
	assert.Empty(t, rec.Header().Get(StateHeader))
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"subject": {"Hello"},
		"message": {"Would love to chat sometime."},
	}
}

func TestContactFormSuccess(t *testing.T) {
	s, d := serverWithDB(t, false)
	rec := postForm(s.Handler(), "/contact", validForm())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Thank you for your message!")
	assert.Contains(t, body, `<meta http-equiv="refresh" content="3;url=/contact">`)
	assert.Contains(t, body, `<button type="submit" disabled>Message Sent!</button>`)
	assert.NotContains(t, body, "grace@example.com", "fields are cleared after success")

	msgs, err := d.ListContactMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Grace", msgs[0].Name)
}

func TestContactFormValidation(t *testing.T) {
	s, _ := serverWithDB(t, false)
	form := validForm()
	form.Set("name", "  ")
	form.Set("email", "grace")
	rec := postForm(s.Handler(), "/contact", form)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, contact.MsgNameRequired)
	assert.Contains(t, body, contact.MsgEmailInvalid)
	assert.NotContains(t, body, contact.MsgSubjectRequired)
	assert.Contains(t, body, `value="grace"`)
	assert.Contains(t, body, `<button type="submit">Send Message</button>`)
}

func TestContactFormStoreFailureKeepsFields(t *testing.T) {
	s := newServer(t, Options{
		Loader:      content.NewLoader(downSource{}, zap.NewNop()),
		Inbox:       brokenInbox{},
		RevertDelay: 2 * time.Second,
	})
	rec := postForm(s.Handler(), "/contact", validForm())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, contact.FailureMessage)
	assert.Contains(t, body, `value="grace@example.com"`)
	assert.Contains(t, body, "Error Sending")
	assert.Contains(t, body, "2000")
	assert.NotContains(t, body, "http-equiv")
}

func TestNavMarksSection(t *testing.T) {
	nav := navFor("/projects/storefront")
	var active []string
	for _, l := range nav {
		if l.Active {
			active = append(active, l.Label)
		}
	}
	assert.Equal(t, []string{"Projects"}, active)

	for _, l := range navFor("/") {
		assert.Equal(t, l.Href == "/", l.Active, l.Label)
	}
}
