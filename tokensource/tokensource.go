// Package tokensource adapts the password grant exchanger to
// golang.org/x/oauth2 so Reddit API clients can be built with oauth2.NewClient.
package tokensource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/goliatone/go-redditauth/core"
)

// DefaultLifetime is applied when the token response carries no expires_in.
// Reddit password grant tokens last one hour.
const DefaultLifetime = time.Hour

type source struct {
	ctx      context.Context
	fetcher  core.TokenFetcher
	secrets  core.SecretSource
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*source)

// WithDefaultLifetime overrides DefaultLifetime. A non-positive value leaves
// tokens without a lifetime unexpired.
func WithDefaultLifetime(lifetime time.Duration) Option {
	return func(s *source) {
		s.lifetime = lifetime
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *source) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a TokenSource that performs one exchange per Token call.
// Cancellation of ctx is ignored so a long-lived client keeps working after
// the constructing request ends; its values are kept.
//
// Tokens carry an expiry taken from the response's expires_in when fetcher
// is a core.GrantFetcher, and DefaultLifetime otherwise.
func New(ctx context.Context, fetcher core.TokenFetcher, secrets core.SecretSource, opts ...Option) (oauth2.TokenSource, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("tokensource: token fetcher is required")
	}
	if secrets == nil {
		return nil, fmt.Errorf("tokensource: secret source is required")
	}
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}
	s := &source{
		ctx:      ctx,
		fetcher:  fetcher,
		secrets:  secrets,
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *source) Token() (*oauth2.Token, error) {
	issuedAt := s.now()
	grant, err := s.fetch()
	if err != nil {
		return nil, err
	}
	if grant.ExpiresIn <= 0 {
		grant.ExpiresIn = s.lifetime
	}
	return grant.OAuth2(issuedAt), nil
}

func (s *source) fetch() (core.Grant, error) {
	if grants, ok := s.fetcher.(core.GrantFetcher); ok {
		return grants.FetchGrantFromSecrets(s.ctx, s.secrets)
	}
	token, err := s.fetcher.FetchTokenFromSecrets(s.ctx, s.secrets)
	if err != nil {
		return core.Grant{}, err
	}
	return core.Grant{Token: token}, nil
}

// NewClient returns an *http.Client that authorizes every request with a
// token from ts. The token is reused until its expiry passes, then a new
// exchange runs.
func NewClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	if ctx == nil {
		ctx = context.Background()
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, ts))
}
