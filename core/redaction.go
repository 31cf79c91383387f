package core

import "strings"

const RedactedValue = "[REDACTED]"

type redactionRule int

const (
	keepValue redactionRule = iota
	maskValue
	redactValue
)

// Keys are matched case-insensitively, so the secret names themselves
// (REDDIT_PASSWORD, REDDIT_CLIENT_ID) classify the same way as the
// credential fields.
var exactRedactionRules = map[string]redactionRule{
	"exchange_id":  keepValue,
	"token_url":    keepValue,
	"token_type":   keepValue,
	"secret_name":  keepValue,
	"trace_id":     keepValue,
	"request_id":   keepValue,
	"username":     keepValue,
	"expires_in":   keepValue,
	"client_id":    maskValue,
	"access_token": redactValue,
}

var sensitiveKeyFragments = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"credential",
}

// RedactSensitiveMap returns a copy of metadata that is safe to log. Secret
// material is replaced with RedactedValue. Client IDs keep their last four
// characters so a misconfigured app stays identifiable. String values that
// carry a Basic or Bearer credential are redacted under any key.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		switch ruleForKey(key) {
		case redactValue:
			target[key] = RedactedValue
		case maskValue:
			target[key] = maskIdentifier(value)
		default:
			target[key] = redactSensitiveValue(value)
		}
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	case string:
		if isAuthorizationValue(typed) {
			return RedactedValue
		}
		return typed
	default:
		return value
	}
}

func ruleForKey(key string) redactionRule {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return keepValue
	}
	if rule, ok := exactRedactionRules[key]; ok {
		return rule
	}
	if strings.HasSuffix(key, "client_id") {
		return maskValue
	}
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(key, fragment) {
			return redactValue
		}
	}
	return keepValue
}

func maskIdentifier(value any) any {
	text, ok := value.(string)
	if !ok {
		return RedactedValue
	}
	if len(text) <= 4 {
		return strings.Repeat("*", len(text))
	}
	return strings.Repeat("*", len(text)-4) + text[len(text)-4:]
}

func isAuthorizationValue(value string) bool {
	scheme, _, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found {
		return false
	}
	return strings.EqualFold(scheme, "basic") || strings.EqualFold(scheme, "bearer")
}
