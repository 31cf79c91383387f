package core

import (
	"context"
	"maps"
	"strconv"
	"time"
)

const (
	MetricTokenExchangeTotal    = "redditauth.token_exchange.total"
	MetricTokenExchangeDuration = "redditauth.token_exchange.duration_ms"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// exchangeTags describes an exchange outcome with low-cardinality values
// only. Exchange IDs, URLs and secret names stay in the logs.
func exchangeTags(statusCode int, err error) map[string]string {
	tags := map[string]string{
		"operation": operationTokenExchange,
		"status":    "success",
	}
	if statusCode > 0 {
		tags["status_code"] = strconv.Itoa(statusCode)
	}
	if err != nil {
		tags["status"] = "failure"
		if kind := ErrorKindOf(err); kind != "" {
			tags["error_kind"] = string(kind)
		}
	}
	return tags
}

// recordExchangeMetrics hands each recorder call its own tag map.
func (e *Exchanger) recordExchangeMetrics(ctx context.Context, duration time.Duration, tags map[string]string) {
	if e == nil || e.metricsRecorder == nil {
		return
	}
	e.metricsRecorder.IncCounter(ctx, MetricTokenExchangeTotal, 1, maps.Clone(tags))
	e.metricsRecorder.ObserveHistogram(ctx, MetricTokenExchangeDuration, float64(duration.Milliseconds()), maps.Clone(tags))
}

var _ MetricsRecorder = NopMetricsRecorder{}
