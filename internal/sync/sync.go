// Package sync mirrors CMS content into the local SQLite database.
package sync

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviddao/folio/internal/types"
)

// Document types in the order they are written. Authors go first so posts
// can resolve them.
const (
	TypeAuthors  = "authors"
	TypeProjects = "projects"
	TypePosts    = "posts"
	TypeSkills   = "skills"
)

// Fetcher reads every document of each type from the CMS.
type Fetcher interface {
	Authors(ctx context.Context) ([]types.Author, error)
	Projects(ctx context.Context) ([]types.Project, error)
	Posts(ctx context.Context) ([]types.Post, error)
	Skills(ctx context.Context) ([]types.Skill, error)
}

// Store replaces the mirrored documents of each type.
type Store interface {
	ReplaceAuthors(ctx context.Context, authors []types.Author) (int, error)
	ReplaceProjects(ctx context.Context, projects []types.Project) (int, error)
	ReplacePosts(ctx context.Context, posts []types.Post) (int, error)
	ReplaceSkills(ctx context.Context, skills []types.Skill) (int, error)
}

// Syncer copies content from a Fetcher to a Store.
type Syncer struct {
	src   Fetcher
	store Store
	log   *zap.Logger
	out   io.Writer
}

// New returns a syncer. Progress lines go to out; nil keeps it quiet.
func New(src Fetcher, store Store, log *zap.Logger, out io.Writer) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Syncer{src: src, store: store, log: log.Named("sync"), out: out}
}

type fetched struct {
	authors  []types.Author
	projects []types.Project
	posts    []types.Post
	skills   []types.Skill
	errs     map[string]error
}

// Run fetches all types concurrently, then writes each type that fetched
// cleanly. A type that fails to fetch keeps its previous mirror.
func (s *Syncer) Run(ctx context.Context) *types.SyncSummary {
	f := s.fetchAll(ctx)
	summary := &types.SyncSummary{}

	write := func(typ string, n int, replace func() (int, error)) {
		result := types.SyncResult{Type: typ}
		defer func() {
			summary.Types = append(summary.Types, result)
			summary.TotalSaved += result.Fetched
		}()

		if err := f.errs[typ]; err != nil {
			result.Error = fmt.Sprintf("fetch failed: %v", err)
			s.log.Error("fetch failed", zap.String("type", typ), zap.Error(err))
			fmt.Fprintf(s.out, "  ! %s — fetch failed: %v\n", typ, err)
			return
		}
		removed, err := replace()
		if err != nil {
			result.Error = fmt.Sprintf("store failed: %v", err)
			s.log.Error("store failed", zap.String("type", typ), zap.Error(err))
			fmt.Fprintf(s.out, "  ! %s — store failed: %v\n", typ, err)
			return
		}
		result.Fetched = n
		result.Removed = removed
		s.log.Info("mirrored", zap.String("type", typ), zap.Int("saved", n), zap.Int("removed", removed))
		fmt.Fprintf(s.out, "  ✓ %s — %d saved, %d removed\n", typ, n, removed)
	}

	write(TypeAuthors, len(f.authors), func() (int, error) { return s.store.ReplaceAuthors(ctx, f.authors) })
	write(TypeProjects, len(f.projects), func() (int, error) { return s.store.ReplaceProjects(ctx, f.projects) })
	write(TypePosts, len(f.posts), func() (int, error) { return s.store.ReplacePosts(ctx, f.posts) })
	write(TypeSkills, len(f.skills), func() (int, error) { return s.store.ReplaceSkills(ctx, f.skills) })

	return summary
}

func (s *Syncer) fetchAll(ctx context.Context) *fetched {
	f := &fetched{errs: make(map[string]error)}
	errs := make([]error, 4)

	var g errgroup.Group
	g.Go(func() error {
		f.authors, errs[0] = s.src.Authors(ctx)
		return nil
	})
	g.Go(func() error {
		f.projects, errs[1] = s.src.Projects(ctx)
		return nil
	})
	g.Go(func() error {
		f.posts, errs[2] = s.src.Posts(ctx)
		return nil
	})
	g.Go(func() error {
		f.skills, errs[3] = s.src.Skills(ctx)
		return nil
	})
	_ = g.Wait()

	for i, typ := range []string{TypeAuthors, TypeProjects, TypePosts, TypeSkills} {
		if errs[i] != nil {
			f.errs[typ] = errs[i]
		}
	}
	return f
}

// Failed reports whether any type failed to sync.
func Failed(summary *types.SyncSummary) bool {
	for _, r := range summary.Types {
		if r.Error != "" {
			return true
		}
	}
	return false
}
