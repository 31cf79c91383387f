package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[FetchTokenMessage]            = (*FetchTokenCommand)(nil)
	_ gocmd.Commander[FetchTokenFromSecretsMessage] = (*FetchTokenFromSecretsCommand)(nil)
)
