// Package sanity queries the Sanity content API.
package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/types"
)

// DefaultAPIVersion is the dated API version queries are pinned to.
const DefaultAPIVersion = "2023-05-03"

// Config identifies a Sanity project.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	Token      string
	Timeout    time.Duration
}

// APIError is a non-2xx response from the query API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sanity returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("sanity returned status %d: %s", e.StatusCode, e.Description)
}

// Client runs GROQ queries against one dataset.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

// NewClient returns a client for cfg. log may be nil.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("sanity project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	host := "api.sanity.io"
	if cfg.UseCDN && cfg.Token == "" {
		host = "apicdn.sanity.io"
	}
	base := fmt.Sprintf("https://%s.%s/v%s/data/query/%s",
		cfg.ProjectID, host, strings.TrimPrefix(cfg.APIVersion, "v"), cfg.Dataset)

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log.Named("sanity"),
	}, nil
}

// WithBaseURL points the client at a different query endpoint.
func (c *Client) WithBaseURL(base string) *Client {
	cp := *c
	cp.baseURL = strings.TrimRight(base, "/")
	return &cp
}

// BaseURL returns the query endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query runs a GROQ query and decodes its result into out. Params are sent
// as $name arguments.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, out any) error {
	v := url.Values{}
	v.Set("query", query)
	for name, val := range params {
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		v.Set("$"+name, string(raw))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+v.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sanity request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("query",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Description = body.Error.Description
		}
		return apiErr
	}

	envelope := struct {
		Result json.RawMessage `json:"result"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// --- content.Source ---

// FeaturedProjects returns up to limit featured projects.
func (c *Client) FeaturedProjects(ctx context.Context, limit int) ([]types.Project, error) {
	projects := []types.Project{}
	err := c.Query(ctx, fmt.Sprintf(FeaturedProjectsQuery, limit), nil, &projects)
	return projects, err
}

// Projects returns all projects, featured first.
func (c *Client) Projects(ctx context.Context) ([]types.Project, error) {
	projects := []types.Project{}
	err := c.Query(ctx, ProjectsQuery, nil, &projects)
	return projects, err
}

// ProjectCategories returns the distinct project categories.
func (c *Client) ProjectCategories(ctx context.Context) ([]string, error) {
	cats := []string{}
	err := c.Query(ctx, ProjectCategoriesQuery, nil, &cats)
	return cats, err
}

// Project returns the project with slug, or nil if there is none.
func (c *Client) Project(ctx context.Context, slug string) (*types.Project, error) {
	var p *types.Project
	if err := c.Query(ctx, ProjectQuery, map[string]any{"slug": slug}, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Posts returns all posts, newest first.
func (c *Client) Posts(ctx context.Context) ([]types.Post, error) {
	posts := []types.Post{}
	err := c.Query(ctx, PostsQuery, nil, &posts)
	return posts, err
}

// PostCategories returns the distinct post categories.
func (c *Client) PostCategories(ctx context.Context) ([]string, error) {
	cats := []string{}
	err := c.Query(ctx, PostCategoriesQuery, nil, &cats)
	return cats, err
}

// Post returns the post with slug, or nil if there is none.
func (c *Client) Post(ctx context.Context, slug string) (*types.Post, error) {
	var p *types.Post
	if err := c.Query(ctx, PostQuery, map[string]any{"slug": slug}, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// TopSkills returns up to limit skills, most proficient first.
func (c *Client) TopSkills(ctx context.Context, limit int) ([]types.Skill, error) {
	skills := []types.Skill{}
	err := c.Query(ctx, fmt.Sprintf(TopSkillsQuery, limit), nil, &skills)
	return skills, err
}

// Skills returns all skills in display order.
func (c *Client) Skills(ctx context.Context) ([]types.Skill, error) {
	skills := []types.Skill{}
	err := c.Query(ctx, SkillsQuery, nil, &skills)
	return skills, err
}

// Authors returns all authors.
func (c *Client) Authors(ctx context.Context) ([]types.Author, error) {
	authors := []types.Author{}
	err := c.Query(ctx, AuthorsQuery, nil, &authors)
	return authors, err
}
