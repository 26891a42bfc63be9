package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newGitHubServer(t *testing.T, profileEmail *string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" || r.PostForm.Get("code_verifier") == "" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "bad_verification_code"})
			return
		}
		writeJSON(w, map[string]any{"access_token": "gh-token", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"login": "octocat", "name": "The Octocat", "email": profileEmail})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGitHub(srv *httptest.Server) *GitHubProvider {
	return NewGitHubProvider("id", "secret", "http://console.test/auth/callback/github",
		WithGitHubEndpoints(oauth2.Endpoint{
			AuthURL:  srv.URL + "/login/oauth/authorize",
			TokenURL: srv.URL + "/login/oauth/access_token",
		}, srv.URL),
	)
}

func TestAuthCodeURLUsesPKCE(t *testing.T) {
	p := NewGitHubProvider("client-1", "secret", "http://console.test/auth/callback/github")

	u, err := url.Parse(p.AuthCodeURL("state-1", oauth2.GenerateVerifier()))
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)

	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "http://console.test/auth/callback/github", q.Get("redirect_uri"))
}

func TestGitHubExchangeAndUser(t *testing.T) {
	email := "public@example.com"
	p := newTestGitHub(newGitHubServer(t, &email))
	ctx := context.Background()

	_, err := p.Exchange(ctx, "bad-code", "verifier")
	assert.Error(t, err)

	tok, err := p.Exchange(ctx, "good-code", "verifier")
	require.NoError(t, err)
	assert.Equal(t, "gh-token", tok.AccessToken)

	user, err := p.User(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, User{Login: "octocat", Name: "The Octocat", Email: "public@example.com"}, user)
}

func TestGitHubUserPrivateEmail(t *testing.T) {
	p := newTestGitHub(newGitHubServer(t, nil))

	user, err := p.User(context.Background(), &oauth2.Token{AccessToken: "gh-token"})
	require.NoError(t, err)
	assert.Equal(t, "octo@example.com", user.Email)
}

func TestGitHubUserEmailsForbidden(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"access_token": "gh-token", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"login": "octocat"})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]string{"message": "Resource not accessible by integration"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	p := NewGitHubProvider("id", "secret", "http://console.test/auth/callback/github",
		WithGitHubEndpoints(oauth2.Endpoint{TokenURL: srv.URL + "/login/oauth/access_token"}, srv.URL),
		WithGitHubLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)

	user, err := p.User(context.Background(), &oauth2.Token{AccessToken: "gh-token"})
	require.NoError(t, err)
	assert.Equal(t, User{Login: "octocat"}, user)
	assert.Contains(t, logs.String(), "github list emails failed")
	assert.Contains(t, logs.String(), "login=octocat")
}

func TestGitLabUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gl-token", r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{
			"id":           7,
			"username":     "ada",
			"name":         "Ada Lovelace",
			"email":        "",
			"public_email": "ada@example.com",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGitLabProvider("id", "secret", "http://console.test/auth/callback/gitlab", srv.URL+"/")
	assert.Equal(t, srv.URL+"/oauth/authorize", p.conf.Endpoint.AuthURL)

	user, err := p.User(context.Background(), &oauth2.Token{AccessToken: "gl-token"})
	require.NoError(t, err)
	assert.Equal(t, User{Login: "ada", Name: "Ada Lovelace", Email: "ada@example.com"}, user)
}

func TestProviders(t *testing.T) {
	gh := NewGitHubProvider("a", "b", "c")
	gl := NewGitLabProvider("a", "b", "c", "https://gitlab.com")
	r := NewProviders(gh, gl, NewGitHubProvider("dup", "dup", "dup"))

	assert.Equal(t, ProviderGitHub, r.Default())
	assert.Len(t, r.List(), 2)

	p, err := r.Get(ProviderGitLab)
	require.NoError(t, err)
	assert.Equal(t, "GitLab", p.DisplayName())

	_, err = r.Get("bitbucket")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Empty(t, NewProviders().Default())
	assert.Equal(t, "https://console.example.com/auth/callback/github", CallbackURL("https://console.example.com", ProviderGitHub))
}
