package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestExchangeError_SentinelMatching(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		err      *ExchangeError
		sentinel error
		others   []error
	}{
		{missingSecretError(SecretPassword), ErrMissingSecret, []error{ErrTransport, ErrHTTPStatus, ErrDecode}},
		{transportError("token request failed", cause), ErrTransport, []error{ErrMissingSecret, ErrHTTPStatus, ErrDecode}},
		{httpStatusError(http.StatusForbidden, "nope"), ErrHTTPStatus, []error{ErrMissingSecret, ErrTransport, ErrDecode}},
		{decodeError(http.StatusOK, "malformed token response", cause), ErrDecode, []error{ErrMissingSecret, ErrTransport, ErrHTTPStatus}},
	}
	for _, tc := range cases {
		t.Run(string(tc.err.Kind), func(t *testing.T) {
			if !errors.Is(tc.err, tc.sentinel) {
				t.Fatalf("expected %v to match %v", tc.err, tc.sentinel)
			}
			for _, other := range tc.others {
				if errors.Is(tc.err, other) {
					t.Fatalf("did not expect %v to match %v", tc.err, other)
				}
			}
		})
	}
}

func TestExchangeError_MessageCarriesDiagnostics(t *testing.T) {
	if msg := missingSecretError(SecretClientID).Error(); !strings.Contains(msg, SecretClientID) {
		t.Fatalf("expected secret name in %q", msg)
	}
	msg := httpStatusError(http.StatusTooManyRequests, "slow down").Error()
	if !strings.Contains(msg, "status=429") || !strings.Contains(msg, "slow down") {
		t.Fatalf("expected status and body in %q", msg)
	}
	wrapped := transportError("token request failed", errors.New("connection reset"))
	if !strings.Contains(wrapped.Error(), "connection reset") {
		t.Fatalf("expected cause in %q", wrapped.Error())
	}
}

func TestErrorKindOf(t *testing.T) {
	if kind := ErrorKindOf(nil); kind != "" {
		t.Fatalf("expected empty kind for nil, got %q", kind)
	}
	if kind := ErrorKindOf(errors.New("plain")); kind != "" {
		t.Fatalf("expected empty kind for plain error, got %q", kind)
	}
	wrapped := fmt.Errorf("outer: %w", decodeError(http.StatusOK, "bad", nil))
	if kind := ErrorKindOf(wrapped); kind != KindDecode {
		t.Fatalf("expected decode kind through wrapper, got %q", kind)
	}
}

func TestToServiceError_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category goerrors.Category
		code     int
		textCode string
	}{
		{"missing secret", missingSecretError(SecretUsername), goerrors.CategoryBadInput, http.StatusBadRequest, ErrorCodeMissingSecret},
		{"transport", transportError("token request failed", errors.New("dial")), goerrors.CategoryExternal, http.StatusBadGateway, ErrorCodeTransportFailure},
		{"unauthorized", httpStatusError(http.StatusUnauthorized, ""), goerrors.CategoryAuth, http.StatusUnauthorized, ErrorCodeRejected},
		{"forbidden", httpStatusError(http.StatusForbidden, ""), goerrors.CategoryAuth, http.StatusUnauthorized, ErrorCodeRejected},
		{"rate limited", httpStatusError(http.StatusTooManyRequests, ""), goerrors.CategoryRateLimit, http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"server error", httpStatusError(http.StatusInternalServerError, ""), goerrors.CategoryExternal, http.StatusBadGateway, ErrorCodeRejected},
		{"decode", decodeError(http.StatusOK, "bad", nil), goerrors.CategoryExternal, http.StatusBadGateway, ErrorCodeDecodeFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := ToServiceError(tc.err)
			if mapped == nil {
				t.Fatalf("expected mapped error")
			}
			if mapped.Category != tc.category {
				t.Fatalf("expected category %v, got %v", tc.category, mapped.Category)
			}
			if mapped.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, mapped.Code)
			}
			if mapped.TextCode != tc.textCode {
				t.Fatalf("expected text code %q, got %q", tc.textCode, mapped.TextCode)
			}
		})
	}
}

func TestToServiceError_NonExchangeErrors(t *testing.T) {
	if ToServiceError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	mapped := ToServiceError(errors.New("unexpected"))
	if mapped == nil || mapped.Code == 0 || mapped.TextCode == "" {
		t.Fatalf("expected a complete envelope, got %#v", mapped)
	}
	rich := goerrors.New("already mapped", goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode("CUSTOM")
	if got := ToServiceError(rich); got.TextCode != "CUSTOM" || got.Code != http.StatusConflict {
		t.Fatalf("expected rich error to pass through, got %#v", got)
	}
}
