package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTokenURL             = "https://www.reddit.com/api/v1/access_token"
	DefaultUserAgent            = "go-redditauth/1.0 (password grant script client)"
	DefaultMaxResponseBodyBytes = int64(1 << 20)
	DefaultRequestTimeout       = 30 * time.Second
)

type Config struct {
	TokenURL             string        `koanf:"token_url" mapstructure:"token_url"`
	UserAgent            string        `koanf:"user_agent" mapstructure:"user_agent"`
	MaxResponseBodyBytes int64         `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	RequestTimeout       time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

func DefaultConfig() Config {
	return Config{
		TokenURL:             DefaultTokenURL,
		UserAgent:            DefaultUserAgent,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
		RequestTimeout:       DefaultRequestTimeout,
	}
}

func (c Config) Validate() error {
	tokenURL := strings.TrimSpace(c.TokenURL)
	if tokenURL == "" {
		return fmt.Errorf("core: token_url is required")
	}
	parsed, err := url.Parse(tokenURL)
	if err != nil {
		return fmt.Errorf("core: invalid token_url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("core: token_url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("core: token_url host is required")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("core: user_agent is required")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: max_response_body_bytes must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout must not be negative")
	}
	return nil
}
