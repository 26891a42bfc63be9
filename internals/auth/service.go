package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	CookieName      = "console_session"
	stateCookieName = "console_oauth_state"
)

var (
	ErrInvalidState = errors.New("invalid or expired sign-in state")
	ErrDenied       = errors.New("sign-in denied by provider")
	ErrNotAllowed   = errors.New("user is not on the admin allow-list")
)

type SessionStore interface {
	Create(user User, provider string) (Session, error)
	Get(id string) (Session, bool, error)
	Delete(id string) error
	PutFlow(state string, f Flow) error
	TakeFlow(state string) (Flow, bool, error)
}

type Service struct {
	store     SessionStore
	providers *Providers
	allow     map[string]bool
	secure    bool
	log       *slog.Logger
}

type ServiceOption func(*Service)

// WithAllowlist restricts sign-in to the given logins or emails
// (case-insensitive). An empty list admits everyone.
func WithAllowlist(entries []string) ServiceOption {
	return func(s *Service) {
		for _, e := range entries {
			s.allow[strings.ToLower(e)] = true
		}
	}
}

func WithSecureCookies(secure bool) ServiceOption {
	return func(s *Service) { s.secure = secure }
}

func NewService(store SessionStore, providers *Providers, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		providers: providers,
		allow:     make(map[string]bool),
		log:       log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Providers() *Providers { return s.providers }

// Auth looks up the session attached to r. The bool reports whether one
// exists; a store failure is returned as an error, never as "signed out".
func (s *Service) Auth(r *http.Request) (Session, bool, error) {
	c, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && c.Value == "") {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	sess, ok, err := s.store.Get(c.Value)
	if err != nil {
		return Session{}, false, fmt.Errorf("session lookup: %w", err)
	}
	return sess, ok, nil
}

// SignIn starts the provider's authorization flow and redirects the browser
// to it. redirectTo is where the user lands after a successful callback.
func (s *Service) SignIn(w http.ResponseWriter, r *http.Request, providerID, redirectTo string) error {
	p, err := s.providers.Get(providerID)
	if err != nil {
		return err
	}

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	if err := s.store.PutFlow(state, Flow{
		Provider:   p.ID(),
		Verifier:   verifier,
		RedirectTo: SafeRedirect(redirectTo, AdminPath),
	}); err != nil {
		return fmt.Errorf("store sign-in flow: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/callback/",
		MaxAge:   int(flowTTL / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.log.Debug("sign-in started", "provider", p.ID())
	http.Redirect(w, r, p.AuthCodeURL(state, verifier), http.StatusSeeOther)
	return nil
}

// Callback completes a flow started by SignIn: it checks the state, exchanges
// the code, creates the session and redirects to the flow's target.
func (s *Service) Callback(w http.ResponseWriter, r *http.Request, providerID string) error {
	p, err := s.providers.Get(providerID)
	if err != nil {
		return err
	}

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return fmt.Errorf("%w: %s", ErrDenied, e)
	}

	state := q.Get("state")
	c, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || c.Value != state {
		return ErrInvalidState
	}
	s.clearCookie(w, stateCookieName, "/auth/callback/")

	flow, ok, err := s.store.TakeFlow(state)
	if err != nil {
		return fmt.Errorf("load sign-in flow: %w", err)
	}
	if !ok || flow.Provider != p.ID() {
		return ErrInvalidState
	}

	code := q.Get("code")
	if code == "" {
		return fmt.Errorf("%w: no code received", ErrInvalidState)
	}

	tok, err := p.Exchange(r.Context(), code, flow.Verifier)
	if err != nil {
		return fmt.Errorf("%s: %w", p.ID(), err)
	}

	user, err := p.User(r.Context(), tok)
	if err != nil {
		return err
	}

	if !s.allowed(user) {
		s.log.Warn("sign-in rejected", "provider", p.ID(), "login", user.Login)
		return ErrNotAllowed
	}

	sess, err := s.store.Create(user, p.ID())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.log.Info("signed in", "provider", p.ID(), "login", user.Login)
	http.Redirect(w, r, flow.RedirectTo, http.StatusFound)
	return nil
}

// SignOut drops any session attached to r and redirects to redirectTo,
// whether or not a session existed.
func (s *Service) SignOut(w http.ResponseWriter, r *http.Request, redirectTo string) error {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if err := s.store.Delete(c.Value); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	s.clearCookie(w, CookieName, "/")

	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
	return nil
}

func (s *Service) allowed(u User) bool {
	if len(s.allow) == 0 {
		return true
	}
	return (u.Login != "" && s.allow[strings.ToLower(u.Login)]) ||
		(u.Email != "" && s.allow[strings.ToLower(u.Email)])
}

func (s *Service) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
