package redditauth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/goliatone/go-redditauth/core"
	"github.com/goliatone/go-redditauth/security"
	"github.com/goliatone/go-redditauth/tokensource"
)

type Config = core.Config

type Option = core.Option

type Exchanger = core.Exchanger

type ExchangerDependencies = core.ExchangerDependencies

type Credentials = core.Credentials

type Token = core.Token

type TokenFetcher = core.TokenFetcher

type Grant = core.Grant

type GrantFetcher = core.GrantFetcher

type SecretSource = core.SecretSource

type HTTPDoer = core.HTTPDoer

type ExchangeError = core.ExchangeError

type ErrorKind = core.ErrorKind

const (
	KindMissingSecret = core.KindMissingSecret
	KindTransport     = core.KindTransport
	KindHTTP          = core.KindHTTP
	KindDecode        = core.KindDecode
)

var (
	ErrMissingSecret = core.ErrMissingSecret
	ErrTransport     = core.ErrTransport
	ErrHTTPStatus    = core.ErrHTTPStatus
	ErrDecode        = core.ErrDecode
)

var (
	WithLogger               = core.WithLogger
	WithLoggerProvider       = core.WithLoggerProvider
	WithMetricsRecorder      = core.WithMetricsRecorder
	WithHTTPClient           = core.WithHTTPClient
	WithConfigProvider       = core.WithConfigProvider
	WithOptionsResolver      = core.WithOptionsResolver
	WithClock                = core.WithClock
	WithExchangeIDGenerator  = core.WithExchangeIDGenerator
	EncodeBasic              = core.EncodeBasic
	ResolveCredentials       = core.ResolveCredentials
	ErrorKindOf              = core.ErrorKindOf
	ToServiceError           = core.ToServiceError
	NewCfgxConfigProvider    = core.NewCfgxConfigProvider
	NewStaticRawConfigLoader = core.NewStaticRawConfigLoader
	RequiredSecrets          = core.RequiredSecrets
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewExchanger(cfg Config, opts ...Option) (*Exchanger, error) {
	return core.NewExchanger(cfg, opts...)
}

// FetchToken performs one exchange with a freshly configured exchanger.
func FetchToken(ctx context.Context, creds Credentials, opts ...Option) (Token, error) {
	exchanger, err := core.NewExchanger(core.Config{}, opts...)
	if err != nil {
		return "", err
	}
	return exchanger.FetchToken(ctx, creds)
}

func FetchTokenFromSecrets(ctx context.Context, source SecretSource, opts ...Option) (Token, error) {
	exchanger, err := core.NewExchanger(core.Config{}, opts...)
	if err != nil {
		return "", err
	}
	return exchanger.FetchTokenFromSecrets(ctx, source)
}

// FetchTokenFromEnv reads REDDIT_USERNAME, REDDIT_PASSWORD, REDDIT_CLIENT_ID
// and REDDIT_CLIENT_SECRET from the process environment, falling back to a
// .env file in the working directory. The file is optional.
func FetchTokenFromEnv(ctx context.Context, opts ...Option) (Token, error) {
	source, err := security.DotenvWithEnv(true)
	if err != nil {
		return "", err
	}
	return FetchTokenFromSecrets(ctx, source, opts...)
}

func NewTokenSource(ctx context.Context, fetcher TokenFetcher, source SecretSource, opts ...tokensource.Option) (oauth2.TokenSource, error) {
	return tokensource.New(ctx, fetcher, source, opts...)
}
