package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-redditauth/adapters/gologger"
	"github.com/goliatone/go-redditauth/core"
)

const (
	JobIDFetchToken  = "redditauth.token.fetch"
	ScriptFetchToken = "redditauth.token.fetch"
)

// TokenHandler receives the token issued for a delivery. Returning an error
// dead-letters the delivery.
type TokenHandler func(ctx context.Context, msg *job.ExecutionMessage, token core.Token) error

// NewFetchTokenMessage builds the execution message for one token fetch.
// Secrets never travel in the message; the runner resolves them itself.
func NewFetchTokenMessage(idempotencyKey string) *job.ExecutionMessage {
	return &job.ExecutionMessage{
		JobID:          JobIDFetchToken,
		ScriptPath:     ScriptFetchToken,
		Parameters:     map[string]any{},
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
		DedupPolicy:    job.DeduplicationPolicy("drop"),
	}
}

type RunnerOption func(*Runner)

func WithEnqueuer(enqueuer queue.Enqueuer) RunnerOption {
	return func(r *Runner) { r.enqueuer = enqueuer }
}

func WithDequeuer(dequeuer queue.Dequeuer) RunnerOption {
	return func(r *Runner) { r.dequeuer = dequeuer }
}

func WithWorkerHook(hook worker.Hook) RunnerOption {
	return func(r *Runner) { r.hook = hook }
}

func WithTokenHandler(handler TokenHandler) RunnerOption {
	return func(r *Runner) { r.handler = handler }
}

func WithRunnerLogger(provider glog.LoggerProvider, logger glog.Logger) RunnerOption {
	return func(r *Runner) {
		_, r.logger = gologger.Resolve("redditauth.gojob", provider, logger)
	}
}

func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// Runner executes token fetch jobs pulled from a go-job queue. Each delivery
// gets exactly one exchange; failures are dead-lettered, never requeued.
type Runner struct {
	fetcher  core.TokenFetcher
	source   core.SecretSource
	enqueuer queue.Enqueuer
	dequeuer queue.Dequeuer
	hook     worker.Hook
	handler  TokenHandler
	logger   glog.Logger
	now      func() time.Time
}

func NewRunner(fetcher core.TokenFetcher, source core.SecretSource, opts ...RunnerOption) (*Runner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("gojob: token fetcher is required")
	}
	if source == nil {
		return nil, fmt.Errorf("gojob: secret source is required")
	}
	runner := &Runner{
		fetcher: fetcher,
		source:  source,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(runner)
	}
	if runner.logger == nil {
		_, runner.logger = gologger.Resolve("redditauth.gojob", nil, nil)
	}
	runner.logger = glog.Ensure(runner.logger)
	if runner.now == nil {
		runner.now = func() time.Time { return time.Now().UTC() }
	}
	return runner, nil
}

func (r *Runner) Enqueue(ctx context.Context, idempotencyKey string) error {
	if r == nil || r.enqueuer == nil {
		return fmt.Errorf("gojob: enqueuer is not configured")
	}
	return r.enqueuer.Enqueue(ctx, NewFetchTokenMessage(idempotencyKey))
}

// ProcessNext dequeues one delivery and runs it. The returned error is the
// exchange or handler failure after the delivery has been settled.
func (r *Runner) ProcessNext(ctx context.Context) error {
	if r == nil || r.dequeuer == nil {
		return fmt.Errorf("gojob: dequeuer is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	delivery, err := r.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	if delivery == nil {
		return fmt.Errorf("gojob: dequeue returned no delivery")
	}
	return r.Process(ctx, delivery)
}

func (r *Runner) Process(ctx context.Context, delivery queue.Delivery) error {
	if r == nil {
		return fmt.Errorf("gojob: runner is nil")
	}
	if delivery == nil {
		return fmt.Errorf("gojob: delivery is required")
	}
	msg := delivery.Message()
	startedAt := r.now()
	event := worker.Event{Message: msg, Delivery: delivery, Attempt: 1, StartedAt: startedAt}

	if msg == nil || strings.TrimSpace(msg.JobID) != JobIDFetchToken {
		jobID := ""
		if msg != nil {
			jobID = msg.JobID
		}
		err := fmt.Errorf("gojob: unsupported job %q", jobID)
		return r.fail(ctx, delivery, event, err, "unsupported_job")
	}

	r.emit(ctx, "start", event)
	token, err := r.fetcher.FetchTokenFromSecrets(ctx, r.source)
	if err != nil {
		reason := string(core.ErrorKindOf(err))
		if reason == "" {
			reason = "fetch_failed"
		}
		return r.fail(ctx, delivery, event, err, reason)
	}
	if r.handler != nil {
		if err := r.handler(ctx, msg, token); err != nil {
			return r.fail(ctx, delivery, event, err, "handler_failed")
		}
	}
	if err := delivery.Ack(ctx); err != nil {
		return fmt.Errorf("gojob: ack delivery: %w", err)
	}
	event.Duration = r.now().Sub(startedAt)
	r.emit(ctx, "success", event)
	r.logger.Info("token fetch job completed",
		"job_id", msg.JobID,
		"idempotency_key", msg.IdempotencyKey,
		"duration_ms", event.Duration.Milliseconds(),
	)
	return nil
}

func (r *Runner) fail(ctx context.Context, delivery queue.Delivery, event worker.Event, cause error, reason string) error {
	event.Err = cause
	event.Duration = r.now().Sub(event.StartedAt)
	r.emit(ctx, "failure", event)
	r.logger.Error("token fetch job failed",
		"reason", reason,
		"error", cause.Error(),
	)
	if err := delivery.Nack(ctx, queue.NackOptions{
		Requeue:    false,
		DeadLetter: true,
		Reason:     reason,
	}); err != nil {
		return fmt.Errorf("gojob: nack delivery after %v: %w", cause, err)
	}
	return cause
}

func (r *Runner) emit(ctx context.Context, phase string, event worker.Event) {
	if r.hook == nil {
		return
	}
	switch phase {
	case "start":
		r.hook.OnStart(ctx, event)
	case "success":
		r.hook.OnSuccess(ctx, event)
	case "failure":
		r.hook.OnFailure(ctx, event)
	}
}
