package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrMissingSecret = errors.New("core: missing secret")
	ErrTransport     = errors.New("core: token request transport failed")
	ErrHTTPStatus    = errors.New("core: token endpoint rejected request")
	ErrDecode        = errors.New("core: token response could not be decoded")
)

type ErrorKind string

const (
	KindMissingSecret ErrorKind = "missing_secret"
	KindTransport     ErrorKind = "transport"
	KindHTTP          ErrorKind = "http"
	KindDecode        ErrorKind = "decode"
)

const (
	ErrorCodeMissingSecret    = "REDDIT_AUTH_MISSING_SECRET"
	ErrorCodeTransportFailure = "REDDIT_AUTH_TRANSPORT_FAILURE"
	ErrorCodeRejected         = "REDDIT_AUTH_REJECTED"
	ErrorCodeRateLimited      = "REDDIT_AUTH_RATE_LIMITED"
	ErrorCodeDecodeFailure    = "REDDIT_AUTH_DECODE_FAILURE"
	ErrorCodeBadInput         = "REDDIT_AUTH_BAD_INPUT"
	ErrorCodeInternal         = "REDDIT_AUTH_INTERNAL_ERROR"
)

// ExchangeError is returned by every failed token exchange. Kind tells the
// caller whether the server was unreachable, rejected the request, or answered
// with an unusable body.
type ExchangeError struct {
	Kind       ErrorKind
	SecretName string
	StatusCode int
	Body       string
	Message    string
	Cause      error
}

func (e *ExchangeError) Error() string {
	if e == nil {
		return ErrTransport.Error()
	}
	base := e.sentinel().Error()
	switch e.Kind {
	case KindMissingSecret:
		if name := strings.TrimSpace(e.SecretName); name != "" {
			base += ": " + name
		}
	case KindHTTP:
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
		if body := strings.TrimSpace(e.Body); body != "" {
			base += ": " + body
		}
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		base += ": " + msg
	}
	if e.Cause != nil {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *ExchangeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches the sentinel for the error kind.
func (e *ExchangeError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == e.sentinel()
}

func (e *ExchangeError) sentinel() error {
	switch e.Kind {
	case KindMissingSecret:
		return ErrMissingSecret
	case KindHTTP:
		return ErrHTTPStatus
	case KindDecode:
		return ErrDecode
	default:
		return ErrTransport
	}
}

func missingSecretError(name string) *ExchangeError {
	return &ExchangeError{Kind: KindMissingSecret, SecretName: name}
}

func transportError(message string, cause error) *ExchangeError {
	return &ExchangeError{Kind: KindTransport, Message: message, Cause: cause}
}

func httpStatusError(statusCode int, body string) *ExchangeError {
	return &ExchangeError{Kind: KindHTTP, StatusCode: statusCode, Body: body}
}

func decodeError(statusCode int, message string, cause error) *ExchangeError {
	return &ExchangeError{Kind: KindDecode, StatusCode: statusCode, Message: message, Cause: cause}
}

// ErrorKindOf reports the kind of an exchange error, or "" when err is not one.
func ErrorKindOf(err error) ErrorKind {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) && exchangeErr != nil {
		return exchangeErr.Kind
	}
	return ""
}

// ToServiceError maps an exchange failure into a go-errors envelope suitable
// for an API boundary.
func ToServiceError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) || exchangeErr == nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return ensureErrorEnvelope(richErr)
		}
		return ensureErrorEnvelope(goerrors.MapToError(err, goerrors.DefaultErrorMappers()))
	}

	switch exchangeErr.Kind {
	case KindMissingSecret:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "required secret is not configured").
			WithCode(http.StatusBadRequest).
			WithTextCode(ErrorCodeMissingSecret).
			WithMetadata(map[string]any{"secret_name": exchangeErr.SecretName})
	case KindHTTP:
		category, code, textCode := classifyHTTPStatus(exchangeErr.StatusCode)
		return goerrors.Wrap(err, category, "token endpoint rejected the request").
			WithCode(code).
			WithTextCode(textCode).
			WithMetadata(map[string]any{"status_code": exchangeErr.StatusCode})
	case KindDecode:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "token response could not be decoded").
			WithCode(http.StatusBadGateway).
			WithTextCode(ErrorCodeDecodeFailure)
	default:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "token endpoint unreachable").
			WithCode(http.StatusBadGateway).
			WithTextCode(ErrorCodeTransportFailure)
	}
}

func classifyHTTPStatus(statusCode int) (goerrors.Category, int, string) {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return goerrors.CategoryAuth, http.StatusUnauthorized, ErrorCodeRejected
	case http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit, http.StatusTooManyRequests, ErrorCodeRateLimited
	default:
		return goerrors.CategoryExternal, http.StatusBadGateway, ErrorCodeRejected
	}
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = http.StatusInternalServerError
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = ErrorCodeInternal
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}
