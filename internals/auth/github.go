package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

type GitHubProvider struct {
	oauthApp
	apiURL string // empty means api.github.com
	log    *slog.Logger
}

type GitHubOption func(*GitHubProvider)

// WithGitHubEndpoints targets a GitHub Enterprise install or a test server.
func WithGitHubEndpoints(ep oauth2.Endpoint, apiURL string) GitHubOption {
	return func(p *GitHubProvider) {
		p.conf.Endpoint = ep
		p.apiURL = apiURL
	}
}

func WithGitHubLogger(log *slog.Logger) GitHubOption {
	return func(p *GitHubProvider) { p.log = log }
}

func NewGitHubProvider(clientID, clientSecret, redirectURL string, opts ...GitHubOption) *GitHubProvider {
	p := &GitHubProvider{
		oauthApp: oauthApp{conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		}},
		log: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *GitHubProvider) ID() string          { return ProviderGitHub }
func (p *GitHubProvider) DisplayName() string { return "GitHub" }

func (p *GitHubProvider) User(ctx context.Context, tok *oauth2.Token) (User, error) {
	gh, err := p.client(ctx, tok)
	if err != nil {
		return User{}, err
	}

	u, _, err := gh.Users.Get(ctx, "")
	if err != nil {
		return User{}, fmt.Errorf("github get user: %w", err)
	}
	user := User{
		Login: u.GetLogin(),
		Name:  u.GetName(),
		Email: u.GetEmail(),
	}

	// A private profile email is only visible through the emails endpoint.
	if user.Email == "" {
		emails, _, err := gh.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
		if err != nil {
			p.log.Debug("github list emails failed, continuing without email", "login", user.Login, "err", err)
		}
		for _, e := range emails {
			if e.GetPrimary() && e.GetVerified() {
				user.Email = e.GetEmail()
				break
			}
		}
	}
	return user, nil
}

func (p *GitHubProvider) client(ctx context.Context, tok *oauth2.Token) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(tok)
	gh := github.NewClient(oauth2.NewClient(ctx, ts))
	if p.apiURL != "" {
		base, err := url.Parse(strings.TrimRight(p.apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github api url: %w", err)
		}
		gh.BaseURL = base
	}
	return gh, nil
}
