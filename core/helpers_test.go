package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type capturingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *capturingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *capturingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *capturingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *capturingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *capturingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *capturingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *capturingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *capturingLogger) WithContext(context.Context) Logger {
	return l
}

func (l *capturingLogger) Entries() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type metricSample struct {
	name  string
	value float64
	tags  map[string]string
}

type capturingMetrics struct {
	mu         sync.Mutex
	counters   []metricSample
	histograms []metricSample
}

func (m *capturingMetrics) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, metricSample{name: name, value: float64(value), tags: tags})
}

func (m *capturingMetrics) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, metricSample{name: name, value: value, tags: tags})
}

func argValue(args []any, key string) (any, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return nil, false
}

func newTestExchanger(t *testing.T, cfg Config, opts ...Option) *Exchanger {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }),
		WithExchangeIDGenerator(func() string { return "ex_test" }),
	}
	exchanger, err := NewExchanger(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new exchanger: %v", err)
	}
	return exchanger
}

func testCredentials() Credentials {
	return Credentials{
		ClientID:     "id123",
		ClientSecret: "secret456",
		Username:     "homestuck_bot",
		Password:     "hunter2",
	}
}
