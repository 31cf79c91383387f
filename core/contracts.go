package core

import (
	"context"
	"net/http"

	glog "github.com/goliatone/go-logger/glog"
)

// HTTPDoer is the transport capability used for the token request.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type TokenFetcher interface {
	FetchToken(ctx context.Context, creds Credentials) (Token, error)
	FetchTokenFromSecrets(ctx context.Context, source SecretSource) (Token, error)
}

// GrantFetcher exposes the full token response for callers that need the
// token lifetime.
type GrantFetcher interface {
	FetchGrant(ctx context.Context, creds Credentials) (Grant, error)
	FetchGrantFromSecrets(ctx context.Context, source SecretSource) (Grant, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
