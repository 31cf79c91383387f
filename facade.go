package redditauth

import (
	"fmt"

	tokencommand "github.com/goliatone/go-redditauth/command"
)

type Commands struct {
	FetchToken            *tokencommand.FetchTokenCommand
	FetchTokenFromSecrets *tokencommand.FetchTokenFromSecretsCommand
}

// Facade exposes the command handlers bound to one token fetcher, ready to
// be registered with a go-command dispatcher.
type Facade struct {
	fetcher  TokenFetcher
	commands Commands
}

func NewFacade(fetcher TokenFetcher) (*Facade, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("redditauth: token fetcher is required")
	}
	return &Facade{
		fetcher: fetcher,
		commands: Commands{
			FetchToken:            tokencommand.NewFetchTokenCommand(fetcher),
			FetchTokenFromSecrets: tokencommand.NewFetchTokenFromSecretsCommand(fetcher),
		},
	}, nil
}

func (f *Facade) Fetcher() TokenFetcher {
	if f == nil {
		return nil
	}
	return f.fetcher
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}
