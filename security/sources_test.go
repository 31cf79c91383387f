package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-redditauth/core"
)

func writeDotenv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestEnvSource_LookupDistinguishesUnsetFromEmpty(t *testing.T) {
	t.Setenv("REDDITAUTH_TEST_SET", "value")
	t.Setenv("REDDITAUTH_TEST_EMPTY", "")

	source := EnvSource{Prefix: "REDDITAUTH_TEST_"}
	if value, ok := source.Lookup("SET"); !ok || value != "value" {
		t.Fatalf("expected set variable, got %q %v", value, ok)
	}
	if value, ok := source.Lookup("EMPTY"); !ok || value != "" {
		t.Fatalf("expected empty variable to be present, got %q %v", value, ok)
	}
	if _, ok := source.Lookup("UNSET_" + t.Name()); ok {
		t.Fatalf("expected unset variable to be absent")
	}
}

func TestMapSource_Lookup(t *testing.T) {
	var empty MapSource
	if _, ok := empty.Lookup(core.SecretUsername); ok {
		t.Fatalf("expected nil map to hold nothing")
	}
	source := MapSource{core.SecretUsername: ""}
	if value, ok := source.Lookup(core.SecretUsername); !ok || value != "" {
		t.Fatalf("expected empty value to be present")
	}
}

func TestNewDotenvSource_ReadsFileWithoutMutatingEnv(t *testing.T) {
	path := writeDotenv(t, "REDDIT_USERNAME=bot\nREDDIT_PASSWORD=\"p w\"\n# comment\nREDDITAUTH_ONLY_IN_FILE=1\n")

	source, err := NewDotenvSource(path)
	if err != nil {
		t.Fatalf("new dotenv source: %v", err)
	}
	if value, ok := source.Lookup(core.SecretUsername); !ok || value != "bot" {
		t.Fatalf("unexpected username %q %v", value, ok)
	}
	if value, _ := source.Lookup(core.SecretPassword); value != "p w" {
		t.Fatalf("expected quoted value to be unquoted, got %q", value)
	}
	if _, ok := os.LookupEnv("REDDITAUTH_ONLY_IN_FILE"); ok {
		t.Fatalf("dotenv source must not export variables")
	}
}

func TestNewDotenvSource_MissingFile(t *testing.T) {
	if _, err := NewDotenvSource(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestParseDotenv(t *testing.T) {
	source, err := ParseDotenv("REDDIT_CLIENT_ID=id123\nREDDIT_CLIENT_SECRET=secret456\n")
	if err != nil {
		t.Fatalf("parse dotenv: %v", err)
	}
	if value, _ := source.Lookup(core.SecretClientSecret); value != "secret456" {
		t.Fatalf("unexpected client secret %q", value)
	}
}

func TestChainSource_FirstHitWins(t *testing.T) {
	chain := ChainSource{
		nil,
		MapSource{core.SecretUsername: "first"},
		MapSource{core.SecretUsername: "second", core.SecretPassword: "pw"},
	}
	if value, _ := chain.Lookup(core.SecretUsername); value != "first" {
		t.Fatalf("expected first source to win, got %q", value)
	}
	if value, ok := chain.Lookup(core.SecretPassword); !ok || value != "pw" {
		t.Fatalf("expected fallthrough to second source")
	}
	if _, ok := chain.Lookup(core.SecretClientID); ok {
		t.Fatalf("expected absent key")
	}
}

func TestDotenvWithEnv_EnvironmentWins(t *testing.T) {
	path := writeDotenv(t, "REDDIT_USERNAME=file-user\nREDDIT_PASSWORD=file-pw\n")
	t.Setenv(core.SecretUsername, "env-user")

	chain, err := DotenvWithEnv(false, path)
	if err != nil {
		t.Fatalf("dotenv with env: %v", err)
	}
	if value, _ := chain.Lookup(core.SecretUsername); value != "env-user" {
		t.Fatalf("expected env to win, got %q", value)
	}
	if value, _ := chain.Lookup(core.SecretPassword); value != "file-pw" {
		t.Fatalf("expected file value, got %q", value)
	}
}

func TestDotenvWithEnv_OptionalMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	if _, err := DotenvWithEnv(false, missing); err == nil {
		t.Fatalf("expected required file to fail")
	}
	chain, err := DotenvWithEnv(true, missing)
	if err != nil {
		t.Fatalf("expected optional file to be skipped: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected env and empty file sources, got %d", len(chain))
	}
}

func TestResolveCredentials_FromChain(t *testing.T) {
	chain := ChainSource{
		MapSource{core.SecretUsername: "bot", core.SecretPassword: "pw"},
		MapSource{core.SecretClientID: "id123", core.SecretClientSecret: "secret456"},
	}
	creds, err := core.ResolveCredentials(chain)
	if err != nil {
		t.Fatalf("resolve credentials: %v", err)
	}
	if creds.Username != "bot" || creds.ClientSecret != "secret456" {
		t.Fatalf("unexpected credentials %#v", creds)
	}
}
