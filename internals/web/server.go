package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jadenj13/rubric-console/internals/analysis"
	"github.com/jadenj13/rubric-console/internals/auth"
	"github.com/jadenj13/rubric-console/internals/env"
)

type Authenticator interface {
	Auth(r *http.Request) (auth.Session, bool, error)
	SignIn(w http.ResponseWriter, r *http.Request, providerID, redirectTo string) error
	Callback(w http.ResponseWriter, r *http.Request, providerID string) error
	SignOut(w http.ResponseWriter, r *http.Request, redirectTo string) error
	Providers() *auth.Providers
}

type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

type Server struct {
	auth     Authenticator
	analyzer Analyzer // nil when no LLM is configured
	env      env.Kind
	log      *slog.Logger
	origin   *http.CrossOriginProtection
}

func NewServer(a Authenticator, analyzer Analyzer, kind env.Kind, log *slog.Logger) *Server {
	return &Server{
		auth:     a,
		analyzer: analyzer,
		env:      kind,
		log:      log,
		origin:   http.NewCrossOriginProtection(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.wrap(s.handleHome))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /admin", s.wrap(s.guarded(auth.AdminPage, s.handleAdmin)))
	mux.HandleFunc("POST /admin", s.wrap(s.handleSignOut))
	mux.HandleFunc("POST /admin/analyze", s.wrap(s.guarded(auth.AdminPage, s.handleAnalyze)))

	mux.HandleFunc("GET /login", s.wrap(s.guarded(auth.LoginPage, s.handleLogin)))
	mux.HandleFunc("POST /login", s.wrap(s.guarded(auth.LoginPage, s.handleSignIn)))
	mux.HandleFunc("GET /auth/callback/{provider}", s.wrap(s.handleCallback))
	return mux
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess auth.Session) error

// wrap is the error boundary: any error a handler returns is logged and
// turned into an error page.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.fail(w, r, err)
		}
	}
}

// guarded runs the session guard for page before h. Lookup failures are
// returned, not treated as signed out.
func (s *Server) guarded(page auth.Page, h sessionHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		sess, ok, err := s.auth.Auth(r)
		if err != nil {
			return err
		}

		origin := ""
		if r.Method == http.MethodGet {
			origin = r.URL.RequestURI()
		}
		if d := auth.Decide(page, ok, origin); !d.Render() {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return nil
		}
		return h(w, r, sess)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "Something went wrong. Please try again."
	switch {
	case errors.Is(err, auth.ErrUnknownProvider):
		status, msg = http.StatusNotFound, "Unknown sign-in provider."
	case errors.Is(err, auth.ErrInvalidState):
		status, msg = http.StatusBadRequest, "Your sign-in link expired. Please sign in again."
	case errors.Is(err, auth.ErrDenied):
		status, msg = http.StatusForbidden, "Sign-in was cancelled at the provider."
	case errors.Is(err, auth.ErrNotAllowed):
		status, msg = http.StatusForbidden, "Your account does not have access to this console."
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.log.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}

	s.render(w, status, "error.html", errorPage{Status: status, Message: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok " + s.env.String() + "\n"))
}
