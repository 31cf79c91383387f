package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-redditauth/core"
	"github.com/joho/godotenv"
)

// EnvSource reads secrets from the process environment. A variable that is
// set to the empty string counts as present.
type EnvSource struct {
	Prefix string
}

func (s EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(s.Prefix + name)
}

// MapSource serves secrets from an in-memory map.
type MapSource map[string]string

func (s MapSource) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s[name]
	return value, ok
}

// NewDotenvSource parses the given dotenv files without touching the process
// environment. With no paths it reads ".env" from the working directory.
// Later files override earlier ones.
func NewDotenvSource(paths ...string) (MapSource, error) {
	filenames := make([]string, 0, len(paths))
	for _, path := range paths {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			filenames = append(filenames, trimmed)
		}
	}
	values, err := godotenv.Read(filenames...)
	if err != nil {
		return nil, fmt.Errorf("security: read dotenv: %w", err)
	}
	return MapSource(values), nil
}

// ParseDotenv reads dotenv content that is already in memory.
func ParseDotenv(content string) (MapSource, error) {
	values, err := godotenv.Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf("security: parse dotenv: %w", err)
	}
	return MapSource(values), nil
}

// ChainSource asks each source in order and returns the first hit.
type ChainSource []core.SecretSource

func (c ChainSource) Lookup(name string) (string, bool) {
	for _, source := range c {
		if source == nil {
			continue
		}
		if value, ok := source.Lookup(name); ok {
			return value, true
		}
	}
	return "", false
}

// DotenvWithEnv layers the process environment over the dotenv files, so an
// exported variable wins over the file the same way godotenv.Load behaves.
// A missing file is not an error when optional is true.
func DotenvWithEnv(optional bool, paths ...string) (ChainSource, error) {
	fileSource, err := NewDotenvSource(paths...)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		fileSource = MapSource{}
	}
	return ChainSource{EnvSource{}, fileSource}, nil
}

var (
	_ core.SecretSource = EnvSource{}
	_ core.SecretSource = MapSource(nil)
	_ core.SecretSource = ChainSource(nil)
)
