package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

const passwordGrantType = "password"

// Exchanger performs the OAuth2 password grant against the token endpoint.
// It holds no per-call state and is safe for concurrent use.
type Exchanger struct {
	config          Config
	httpClient      HTTPDoer
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	now             func() time.Time
	newExchangeID   func() string
}

type ExchangerDependencies struct {
	HTTPClient      HTTPDoer
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
}

func NewExchanger(cfg Config, opts ...Option) (*Exchanger, error) {
	builder := defaultExchangerBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve(loggerName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(loggerName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = func() time.Time { return time.Now().UTC() }
	}
	if builder.newExchangeID == nil {
		builder.newExchangeID = uuid.NewString
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, fmt.Errorf("core: load config: %w", err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, fmt.Errorf("core: resolve config: %w", err)
	}

	httpClient := builder.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: finalConfig.RequestTimeout}
	}

	return &Exchanger{
		config:          finalConfig,
		httpClient:      httpClient,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		now:             builder.now,
		newExchangeID:   builder.newExchangeID,
	}, nil
}

func (e *Exchanger) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.config
}

func (e *Exchanger) Dependencies() ExchangerDependencies {
	if e == nil {
		return ExchangerDependencies{}
	}
	return ExchangerDependencies{
		HTTPClient:      e.httpClient,
		Logger:          e.logger,
		LoggerProvider:  e.loggerProvider,
		MetricsRecorder: e.metricsRecorder,
		ConfigProvider:  e.configProvider,
		OptionsResolver: e.optionsResolver,
	}
}

// FetchTokenFromSecrets resolves the required secrets from source and then
// performs a single token exchange. A missing secret fails the call before
// any request is sent.
func (e *Exchanger) FetchTokenFromSecrets(ctx context.Context, source SecretSource) (Token, error) {
	grant, err := e.FetchGrantFromSecrets(ctx, source)
	if err != nil {
		return "", err
	}
	return grant.Token, nil
}

// FetchToken sends one password grant request and returns the issued access
// token. Failures are always *ExchangeError values.
func (e *Exchanger) FetchToken(ctx context.Context, creds Credentials) (Token, error) {
	grant, err := e.FetchGrant(ctx, creds)
	if err != nil {
		return "", err
	}
	return grant.Token, nil
}

func (e *Exchanger) FetchGrantFromSecrets(ctx context.Context, source SecretSource) (Grant, error) {
	creds, err := ResolveCredentials(source)
	if err != nil {
		if e != nil {
			e.observeExchange(ctx, e.now(), e.newExchangeID(), 0, err)
		}
		return Grant{}, err
	}
	return e.FetchGrant(ctx, creds)
}

// FetchGrant is FetchToken with the optional response fields kept.
func (e *Exchanger) FetchGrant(ctx context.Context, creds Credentials) (Grant, error) {
	if e == nil {
		return Grant{}, transportError("exchanger is not configured", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := e.now()
	exchangeID := e.newExchangeID()

	grant, statusCode, err := e.exchange(ctx, creds)
	e.observeExchange(ctx, startedAt, exchangeID, statusCode, err)
	if err != nil {
		return Grant{}, err
	}
	return grant, nil
}

func (e *Exchanger) exchange(ctx context.Context, creds Credentials) (Grant, int, error) {
	if e.httpClient == nil {
		return Grant{}, 0, transportError("http client is not configured", nil)
	}

	form := url.Values{}
	form.Set("grant_type", passwordGrantType)
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.config.TokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return Grant{}, 0, transportError("build token request", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Authorization", EncodeBasic(creds.ClientID, creds.ClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Grant{}, 0, transportError("token request failed", err)
	}
	if resp == nil {
		return Grant{}, 0, transportError("token request returned no response", nil)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	body, truncated, err := readResponseBody(resp.Body, e.config.MaxResponseBodyBytes)
	if err != nil {
		return Grant{}, resp.StatusCode, err
	}
	// A rejection keeps its status even when the body is cut at the limit.
	if resp.StatusCode != http.StatusOK {
		return Grant{}, resp.StatusCode, httpStatusError(resp.StatusCode, string(body))
	}
	if truncated {
		return Grant{}, resp.StatusCode, transportError(
			fmt.Sprintf("token response exceeds %d bytes", effectiveBodyLimit(e.config.MaxResponseBodyBytes)),
			nil,
		)
	}

	grant, err := decodeTokenResponse(resp.StatusCode, body)
	if err != nil {
		return Grant{}, resp.StatusCode, err
	}
	return grant, resp.StatusCode, nil
}

func effectiveBodyLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultMaxResponseBodyBytes
	}
	return limit
}

// readResponseBody returns at most limit bytes and reports whether the body
// was longer.
func readResponseBody(body io.Reader, limit int64) ([]byte, bool, error) {
	if body == nil {
		return []byte{}, false, nil
	}
	limit = effectiveBodyLimit(limit)
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, false, transportError("read token response", err)
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

type tokenResponse struct {
	AccessToken *string         `json:"access_token"`
	TokenType   any             `json:"token_type"`
	ExpiresIn   json.RawMessage `json:"expires_in"`
	Scope       any             `json:"scope"`
	Error       any             `json:"error"`
}

func decodeTokenResponse(statusCode int, body []byte) (Grant, error) {
	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Grant{}, decodeError(statusCode, "malformed token response", err)
	}
	// Blank tokens are rejected: Reddit answers bad credentials with 200 and
	// no usable token, and an empty bearer would only fail later at the API.
	if payload.AccessToken == nil || strings.TrimSpace(*payload.AccessToken) == "" {
		if payload.Error != nil {
			return Grant{}, decodeError(statusCode, fmt.Sprintf("token response carries error %v", payload.Error), nil)
		}
		return Grant{}, decodeError(statusCode, "token response missing access_token", nil)
	}
	grant := Grant{
		Token:     Token(*payload.AccessToken),
		ExpiresIn: parseExpiresIn(payload.ExpiresIn),
	}
	if tokenType, ok := payload.TokenType.(string); ok {
		grant.TokenType = tokenType
	}
	if scope, ok := payload.Scope.(string); ok {
		grant.Scope = scope
	}
	return grant, nil
}

// parseExpiresIn accepts seconds as a JSON number or numeric string. Anything
// else is treated as absent.
func parseExpiresIn(raw json.RawMessage) time.Duration {
	if len(raw) == 0 {
		return 0
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return 0
	}
	seconds, err := number.Float64()
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
