package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jadenj13/rubric-console/internals/analysis"
	"github.com/jadenj13/rubric-console/internals/auth"
	"github.com/jadenj13/rubric-console/internals/rubric"
)

type homePage struct {
	Env string
}

type loginPage struct {
	Providers []auth.Provider
	Action    string
}

type adminPage struct {
	User            auth.User
	Env             string
	Rubrics         []rubric.Rubric
	Selected        string
	Text            string
	AnalysisEnabled bool
	Error           string
	Panel           *SummaryPanel
}

type errorPage struct {
	Status  int
	Message string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) error {
	return s.render(w, http.StatusOK, "home.html", homePage{Env: s.env.String()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ auth.Session) error {
	action := auth.LoginPath
	if cb := r.URL.Query().Get(auth.CallbackParam); cb != "" {
		action = auth.LoginURL(cb)
	}
	return s.render(w, http.StatusOK, "login.html", loginPage{
		Providers: s.auth.Providers().List(),
		Action:    action,
	})
}

// handleSignIn starts the provider flow. The post-login target comes from the
// callbackUrl query parameter and defaults to the admin page.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request, _ auth.Session) error {
	provider := r.FormValue("provider")
	if provider == "" {
		provider = s.auth.Providers().Default()
	}
	redirectTo := r.URL.Query().Get(auth.CallbackParam)
	if redirectTo == "" {
		redirectTo = auth.AdminPath
	}
	return s.auth.SignIn(w, r, provider, redirectTo)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) error {
	return s.auth.Callback(w, r, r.PathValue("provider"))
}

// handleSignOut ends the session. A cross-origin post is sent home without
// touching the session or its cookie.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) error {
	if err := s.origin.Check(r); err != nil {
		s.log.Warn("cross-origin sign-out ignored", "origin", r.Header.Get("Origin"), "err", err)
		http.Redirect(w, r, auth.HomePath, http.StatusSeeOther)
		return nil
	}
	return s.auth.SignOut(w, r, auth.HomePath)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	return s.render(w, http.StatusOK, "admin.html", s.newAdminPage(sess))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, sess auth.Session) error {
	page := s.newAdminPage(sess)
	page.Selected = r.FormValue("rubric")
	page.Text = r.FormValue("text")

	if s.analyzer == nil {
		page.Error = "Analysis is not configured on this deployment."
		return s.render(w, http.StatusServiceUnavailable, "admin.html", page)
	}

	requestedBy := sess.User.Login
	if requestedBy == "" {
		requestedBy = sess.User.Email
	}
	res, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Rubric:      page.Selected,
		Text:        page.Text,
		RequestedBy: requestedBy,
	})
	switch {
	case errors.Is(err, rubric.ErrUnknown):
		page.Error = "Choose one of the listed rubrics."
		return s.render(w, http.StatusBadRequest, "admin.html", page)
	case errors.Is(err, analysis.ErrEmptyInput):
		page.Error = "Paste some text to analyze."
		return s.render(w, http.StatusBadRequest, "admin.html", page)
	case err != nil:
		return err
	}

	title := res.Rubric
	if rb, err := rubric.Lookup(res.Rubric); err == nil {
		title = rb.Title
	}
	panel := NewSummaryPanel(title, res.Text())
	page.Panel = &panel
	return s.render(w, http.StatusOK, "admin.html", page)
}

func (s *Server) newAdminPage(sess auth.Session) adminPage {
	rubrics := rubric.All()
	selected := ""
	if len(rubrics) > 0 {
		selected = rubrics[0].Name
	}
	return adminPage{
		User:            sess.User,
		Env:             s.env.String(),
		Rubrics:         rubrics,
		Selected:        selected,
		AnalysisEnabled: s.analyzer != nil,
	}
}

// displayName is what the admin header greets the user with.
func displayName(u auth.User) string {
	for _, v := range []string{u.Name, u.Login, u.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "admin"
}
