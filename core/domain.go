package core

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	SecretUsername     = "REDDIT_USERNAME"
	SecretPassword     = "REDDIT_PASSWORD"
	SecretClientID     = "REDDIT_CLIENT_ID"
	SecretClientSecret = "REDDIT_CLIENT_SECRET"
)

// RequiredSecrets lists the secret names resolved before an exchange, in
// lookup order.
var RequiredSecrets = []string{
	SecretUsername,
	SecretPassword,
	SecretClientID,
	SecretClientSecret,
}

type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// LogFields describes the credentials without exposing secret material.
func (c Credentials) LogFields() map[string]any {
	return RedactSensitiveMap(map[string]any{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"username":      c.Username,
		"password":      c.Password,
	})
}

// Token is an opaque access token issued by the authorization server.
type Token string

func (t Token) String() string {
	return string(t)
}

func (t Token) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// OAuth2 wraps the token for use with golang.org/x/oauth2 clients. The
// expiry is left unset because the exchanger does not track it.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: string(t),
		TokenType:   "bearer",
	}
}

// Grant is the token endpoint response. Only Token is required; the other
// fields are zero when the server omits them.
type Grant struct {
	Token     Token
	TokenType string
	ExpiresIn time.Duration
	Scope     string
}

// OAuth2 converts the grant, anchoring ExpiresIn at issuedAt. A grant
// without a lifetime yields a token with no expiry.
func (g Grant) OAuth2(issuedAt time.Time) *oauth2.Token {
	token := g.Token.OAuth2()
	if g.ExpiresIn > 0 {
		token.Expiry = issuedAt.Add(g.ExpiresIn)
	}
	return token
}
