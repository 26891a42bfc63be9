package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var ErrUnknownProvider = errors.New("unknown identity provider")

const (
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"
)

type Provider interface {
	ID() string
	DisplayName() string
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	User(ctx context.Context, tok *oauth2.Token) (User, error)
}

// oauthApp implements the authorization-code-with-PKCE half of a Provider.
type oauthApp struct {
	conf *oauth2.Config
}

func (a oauthApp) AuthCodeURL(state, verifier string) string {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

func (a oauthApp) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := a.conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// Providers holds the configured providers in registration order.
type Providers struct {
	byID  map[string]Provider
	order []Provider
}

func NewProviders(ps ...Provider) *Providers {
	r := &Providers{byID: make(map[string]Provider, len(ps))}
	for _, p := range ps {
		if _, dup := r.byID[p.ID()]; dup {
			continue
		}
		r.byID[p.ID()] = p
		r.order = append(r.order, p)
	}
	return r
}

func (r *Providers) Get(id string) (Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}

func (r *Providers) List() []Provider { return r.order }

// Default is the provider used when a sign-in request names none.
func (r *Providers) Default() string {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0].ID()
}

func CallbackURL(baseURL, providerID string) string {
	return baseURL + "/auth/callback/" + providerID
}
