package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
	"github.com/joescharf/osg/internal/ui"
)

// ProjectsChangedEvent is the htmx event that makes the card list reload.
const ProjectsChangedEvent = "projects-changed"

// Backend is the subset of the backend client the web front end uses.
type Backend interface {
	ListProjects(ctx context.Context, page *url.URL) ([]models.Project, error)
	CreateProject(ctx context.Context, page *url.URL, githubURL string) error
}

// Options tunes a Server. Zero values pick defaults, except Page.
type Options struct {
	// Page is the configured origin the showcase is served from. The
	// endpoint resolver keys off its hostname. Request headers never
	// replace it. Required.
	Page *url.URL

	Title        string
	LoadingCount int
	SessionTTL   time.Duration
	MaxSessions  int
	Logger       *slog.Logger
}

// Server renders the showcase page and drives the add-project dialog.
type Server struct {
	backend  Backend
	preview  github.Previewer
	render   *render.Renderer
	pages    *template.Template
	static   http.Handler
	sessions *Sessions
	page     *url.URL
	logger   *slog.Logger
	opts     Options
}

// NewServer creates the web front end.
func NewServer(b Backend, p github.Previewer, opts Options) (*Server, error) {
	if opts.Page == nil || opts.Page.Host == "" {
		return nil, errors.New("page URL is required")
	}
	if opts.Title == "" {
		opts.Title = "Open Source Ghana"
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.MaxSessions == 0 {
		opts.MaxSessions = 10000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pages, err := ui.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := ui.Handler()
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	return &Server{
		backend:  b,
		preview:  p,
		render:   render.New(),
		pages:    pages,
		static:   static,
		sessions: NewSessions(opts.SessionTTL, opts.MaxSessions),
		page:     opts.Page,
		logger:   opts.Logger,
		opts:     opts,
	}, nil
}

// Router returns the http.Handler for all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/healthz", s.healthz)
	r.Get("/fragments/projects", s.projects)

	r.Route("/modal", func(r chi.Router) {
		r.Post("/open", s.modalOpen)
		r.Post("/input", s.modalInput)
		r.Post("/submit", s.modalSubmit)
		r.Post("/close", s.modalClose)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", s.static))
	return r
}

type pageData struct {
	Title   string
	Loading template.HTML
	Modal   modalView
}

type modalView struct {
	modal.State
	PreviewHTML template.HTML
	BusyLabel   string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	state := sess.update(modal.Close)

	loading, err := render.HTML(func(out io.Writer) error { return s.render.Loading(out, s.opts.LoadingCount) })
	if err != nil {
		s.fail(w, "render loading", err)
		return
	}
	view, err := s.modalView(state)
	if err != nil {
		s.fail(w, "render modal", err)
		return
	}
	s.writeTemplate(w, "page", pageData{Title: s.opts.Title, Loading: loading, Modal: view})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// projects renders the card list fragment. Any failure renders the error
// placeholder with status 200 so the page swaps it in.
func (s *Server) projects(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	projects, err := s.backend.ListProjects(r.Context(), s.page)
	if err != nil {
		s.logger.Error("list projects failed", "error", err)
		err = s.render.Error(&buf)
	} else {
		err = s.render.List(&buf, projects)
	}
	if err != nil {
		s.fail(w, "render projects", err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) modalOpen(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	s.writeModal(w, "modal", sess.update(modal.Open))
}

func (s *Server) modalClose(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	s.writeModal(w, "modal", sess.update(modal.Close))
}

func (s *Server) modalInput(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	raw := r.FormValue("url")

	var req *modal.PreviewRequest
	state := sess.update(func(st modal.State) modal.State {
		if !st.Visible() {
			st = modal.Open(st)
		}
		var next modal.State
		next, req = modal.Edit(st, raw)
		return next
	})

	if req != nil {
		p, err := s.preview.FetchRepoMetadata(r.Context(), req.Ref.Owner, req.Ref.Name)
		if err != nil {
			s.logger.Warn("repository preview failed", "owner", req.Ref.Owner, "repo", req.Ref.Name, "error", err)
		}
		state = sess.update(func(st modal.State) modal.State {
			return modal.ApplyPreview(st, *req, p, err)
		})
	}
	s.writeModal(w, "modal-body", state)
}

func (s *Server) modalSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)

	var (
		sub models.Submission
		ok  bool
	)
	state := sess.update(func(st modal.State) modal.State {
		var next modal.State
		next, sub, ok = modal.BeginSubmit(st)
		return next
	})
	if !ok {
		s.writeModal(w, "modal-body", state)
		return
	}

	err := s.backend.CreateProject(r.Context(), s.page, sub.GithubURL)
	state = sess.update(func(st modal.State) modal.State {
		return modal.FinishSubmit(st, err)
	})
	if err != nil {
		s.logger.Warn("add project failed", "github_url", sub.GithubURL, "error", err)
		s.writeModal(w, "modal-body", state)
		return
	}

	s.logger.Info("project added", "github_url", sub.GithubURL)
	w.Header().Set("HX-Trigger", ProjectsChangedEvent)
	w.Header().Set("HX-Retarget", "#modal")
	w.Header().Set("HX-Reswap", "outerHTML")
	s.writeModal(w, "modal", state)
}

func (s *Server) modalView(st modal.State) (modalView, error) {
	view := modalView{State: st, BusyLabel: modal.BusyLabel}
	if st.Preview != nil {
		html, err := render.HTML(func(out io.Writer) error { return s.render.Card(out, *st.Preview) })
		if err != nil {
			return view, err
		}
		view.PreviewHTML = html
	}
	return view, nil
}

func (s *Server) writeModal(w http.ResponseWriter, name string, st modal.State) {
	view, err := s.modalView(st)
	if err != nil {
		s.fail(w, "render preview", err)
		return
	}
	s.writeTemplate(w, name, view)
}

func (s *Server) writeTemplate(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, "render "+name, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what+" failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
