package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-redditauth/core"
)

// FetchTokenCommand runs one exchange and stores the token in the result
// collector carried by ctx, when there is one. Exchange failures are
// returned as go-errors envelopes via core.ToServiceError.
type FetchTokenCommand struct {
	fetcher core.TokenFetcher
}

func NewFetchTokenCommand(fetcher core.TokenFetcher) *FetchTokenCommand {
	return &FetchTokenCommand{fetcher: fetcher}
}

func (c *FetchTokenCommand) Execute(ctx context.Context, msg FetchTokenMessage) error {
	if c == nil || c.fetcher == nil {
		return commandDependencyError("command: token fetcher is required")
	}
	token, err := c.fetcher.FetchToken(ctx, msg.Credentials)
	if err != nil {
		return core.ToServiceError(err)
	}
	storeResult(ctx, token)
	return nil
}

type FetchTokenFromSecretsCommand struct {
	fetcher core.TokenFetcher
}

func NewFetchTokenFromSecretsCommand(fetcher core.TokenFetcher) *FetchTokenFromSecretsCommand {
	return &FetchTokenFromSecretsCommand{fetcher: fetcher}
}

func (c *FetchTokenFromSecretsCommand) Execute(ctx context.Context, msg FetchTokenFromSecretsMessage) error {
	if c == nil || c.fetcher == nil {
		return commandDependencyError("command: token fetcher is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	token, err := c.fetcher.FetchTokenFromSecrets(ctx, msg.Source)
	if err != nil {
		return core.ToServiceError(err)
	}
	storeResult(ctx, token)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
