package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

const operationTokenExchange = "token_exchange"

func (e *Exchanger) observeExchange(
	ctx context.Context,
	startedAt time.Time,
	exchangeID string,
	statusCode int,
	err error,
) {
	if e == nil {
		return
	}
	duration := e.now().Sub(startedAt)
	tags := exchangeTags(statusCode, err)

	fields := map[string]any{
		"event_type":  operationTokenExchange,
		"exchange_id": exchangeID,
		"token_url":   e.config.TokenURL,
		"status":      tags["status"],
		"duration_ms": duration.Milliseconds(),
	}
	if statusCode > 0 {
		fields["status_code"] = statusCode
	}
	if err != nil {
		fields["error"] = err.Error()
		if kind, ok := tags["error_kind"]; ok {
			fields["error_kind"] = kind
		}
		var exchangeErr *ExchangeError
		if errors.As(err, &exchangeErr) && exchangeErr.SecretName != "" {
			fields["secret_name"] = exchangeErr.SecretName
		}
	}

	e.recordExchangeMetrics(ctx, duration, tags)

	if err != nil {
		e.logWithLevel(ctx, "error", operationTokenExchange+" failed", fields)
		return
	}
	e.logWithLevel(ctx, "info", operationTokenExchange+" succeeded", fields)
}

func (e *Exchanger) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	fields = RedactSensitiveMap(fields)
	logger := e.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
