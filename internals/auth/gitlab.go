package auth

import (
	"context"
	"fmt"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/oauth2"
)

type GitLabProvider struct {
	oauthApp
	baseURL string
}

// NewGitLabProvider works against gitlab.com or a self-hosted instance at
// baseURL, e.g. https://gitlab.mycompany.com.
func NewGitLabProvider(clientID, clientSecret, redirectURL, baseURL string) *GitLabProvider {
	baseURL = strings.TrimRight(baseURL, "/")
	return &GitLabProvider{
		oauthApp: oauthApp{conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/oauth/authorize",
				TokenURL: baseURL + "/oauth/token",
			},
			Scopes: []string{"read_user"},
		}},
		baseURL: baseURL,
	}
}

func (p *GitLabProvider) ID() string          { return ProviderGitLab }
func (p *GitLabProvider) DisplayName() string { return "GitLab" }

func (p *GitLabProvider) User(ctx context.Context, tok *oauth2.Token) (User, error) {
	gl, err := gitlab.NewOAuthClient(tok.AccessToken, gitlab.WithBaseURL(p.baseURL+"/api/v4"))
	if err != nil {
		return User{}, fmt.Errorf("gitlab client: %w", err)
	}

	u, _, err := gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return User{}, fmt.Errorf("gitlab current user: %w", err)
	}

	email := u.Email
	if email == "" {
		email = u.PublicEmail
	}
	return User{
		Login: u.Username,
		Name:  u.Name,
		Email: email,
	}, nil
}
