// Package site serves the portfolio: server-rendered pages, the contact
// form and the JSON contact API.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/config"
	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/media"
	"github.com/daviddao/folio/internal/portable"
	"github.com/daviddao/folio/internal/types"
)

// StateHeader carries the content.State of the page that was served.
const StateHeader = "X-Content-State"

const (
	notifyTimeout   = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	maxContactBody  = 64 << 10
)

// Inbox stores contact messages.
type Inbox interface {
	InsertContactMessage(ctx context.Context, m *types.ContactMessage) error
	MarkNotified(ctx context.Context, id string, notifyErr error) error
}

// Notifier tells the owner about a new message.
type Notifier interface {
	Notify(ctx context.Context, m *types.ContactMessage) error
}

// Options configures a Server. Notifier may be nil.
type Options struct {
	Site     config.SiteConfig
	Loader   *content.Loader
	Inbox    Inbox
	Notifier Notifier
	Images   media.Resolver

	ContactPerMinute int
	ContactBurst     int
	RevertDelay      time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *zap.Logger
}

// Server is the HTTP front end.
type Server struct {
	site     config.SiteConfig
	loader   *content.Loader
	inbox    Inbox
	notifier Notifier
	images   media.Resolver
	body     *portable.Renderer
	limiter  *ClientLimiter
	revert   time.Duration
	timeouts [2]time.Duration
	log      *zap.Logger

	pages map[string]*template.Template
	// notifications tracks background Gmail sends.
	notifications sync.WaitGroup
}

// New parses the page templates and returns a server.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil {
		return nil, errors.New("site: content loader is required")
	}
	if opts.Inbox == nil {
		return nil, errors.New("site: inbox is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	revert := opts.RevertDelay
	if revert <= 0 {
		revert = contact.RevertDelay
	}

	s := &Server{
		site:     opts.Site,
		loader:   opts.Loader,
		inbox:    opts.Inbox,
		notifier: opts.Notifier,
		images:   opts.Images,
		limiter:  NewClientLimiter(opts.ContactPerMinute, opts.ContactBurst),
		revert:   revert,
		timeouts: [2]time.Duration{opts.ReadTimeout, opts.WriteTimeout},
		log:      log,
	}
	s.body = portable.NewRenderer(func(img types.Image) string {
		return s.images.URL(img, media.Width(1200), media.AutoFormat())
	})

	pages, err := parsePages(s.funcs())
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleHome)
	r.Get("/about", s.handleAbout)
	r.Get("/projects", s.handleProjects)
	r.Get("/projects/{slug}", s.handleProject)
	r.Get("/blog", s.handleBlog)
	r.Get("/blog/{slug}", s.handlePost)
	r.Get("/contact", s.handleContactForm)
	r.Post("/contact", s.handleContactSubmit)
	r.Post("/api/contact", s.handleContactAPI)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r, "Page Not Found", "")
	})
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully and
// waits for pending notifications.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.timeouts[0],
		WriteTimeout:      s.timeouts[1],
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.Wait()
	return nil
}

// Wait blocks until every background notification has finished.
func (s *Server) Wait() {
	s.notifications.Wait()
}
