package core

import (
	"errors"
	"testing"
)

func TestResolveCredentials_MapsNamedSecrets(t *testing.T) {
	source := mapSecrets{
		SecretUsername:     "bot",
		SecretPassword:     "hunter2",
		SecretClientID:     "id123",
		SecretClientSecret: "secret456",
	}
	creds, err := ResolveCredentials(source)
	if err != nil {
		t.Fatalf("resolve credentials: %v", err)
	}
	if creds.Username != "bot" || creds.Password != "hunter2" {
		t.Fatalf("unexpected user credentials: %#v", creds)
	}
	if creds.ClientID != "id123" || creds.ClientSecret != "secret456" {
		t.Fatalf("unexpected client credentials: %#v", creds)
	}
}

func TestResolveCredentials_ReportsMissingSecretByName(t *testing.T) {
	for _, missing := range RequiredSecrets {
		t.Run(missing, func(t *testing.T) {
			source := mapSecrets{
				SecretUsername:     "bot",
				SecretPassword:     "hunter2",
				SecretClientID:     "id123",
				SecretClientSecret: "secret456",
			}
			delete(source, missing)

			_, err := ResolveCredentials(source)
			if !errors.Is(err, ErrMissingSecret) {
				t.Fatalf("expected missing secret error, got %v", err)
			}
			var exchangeErr *ExchangeError
			if !errors.As(err, &exchangeErr) {
				t.Fatalf("expected exchange error, got %T", err)
			}
			if exchangeErr.Kind != KindMissingSecret {
				t.Fatalf("expected missing_secret kind, got %q", exchangeErr.Kind)
			}
			if exchangeErr.SecretName != missing {
				t.Fatalf("expected secret name %q, got %q", missing, exchangeErr.SecretName)
			}
		})
	}
}

func TestResolveCredentials_EmptyValuesPassThrough(t *testing.T) {
	source := mapSecrets{
		SecretUsername:     "",
		SecretPassword:     "",
		SecretClientID:     "",
		SecretClientSecret: "",
	}
	creds, err := ResolveCredentials(source)
	if err != nil {
		t.Fatalf("expected empty secrets to pass through, got %v", err)
	}
	if creds != (Credentials{}) {
		t.Fatalf("expected empty credentials, got %#v", creds)
	}
}

func TestResolveCredentials_NilSourceIsMissing(t *testing.T) {
	_, err := ResolveCredentials(nil)
	if ErrorKindOf(err) != KindMissingSecret {
		t.Fatalf("expected missing secret for nil source, got %v", err)
	}
}

func TestSecretSourceFunc_NilIsAbsent(t *testing.T) {
	var fn SecretSourceFunc
	if _, ok := fn.Lookup(SecretUsername); ok {
		t.Fatalf("expected nil func source to report absence")
	}
}

type mapSecrets map[string]string

func (m mapSecrets) Lookup(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}
