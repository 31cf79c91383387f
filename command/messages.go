package command

import "github.com/goliatone/go-redditauth/core"

const (
	TypeFetchToken            = "redditauth.command.token.fetch"
	TypeFetchTokenFromSecrets = "redditauth.command.token.fetch_from_secrets"
)

// FetchTokenMessage carries credentials verbatim. Empty fields are not
// rejected here; the token endpoint decides.
type FetchTokenMessage struct {
	Credentials core.Credentials
}

func (FetchTokenMessage) Type() string { return TypeFetchToken }

type FetchTokenFromSecretsMessage struct {
	Source core.SecretSource
}

func (FetchTokenFromSecretsMessage) Type() string { return TypeFetchTokenFromSecrets }

func (m FetchTokenFromSecretsMessage) Validate() error {
	if m.Source == nil {
		return commandValidationError("source", "secret source is required")
	}
	return nil
}
