package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"

	tokencommand "github.com/goliatone/go-redditauth/command"
	"github.com/goliatone/go-redditauth/core"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

// AddQueueResolver mirrors registered commands into a go-job queue registry
// so token fetches can also be scheduled as jobs.
func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// TokenSubscriptions holds the dispatcher subscriptions created by
// RegisterTokenCommands.
type TokenSubscriptions []commanddispatcher.Subscription

func (s TokenSubscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// RegisterTokenCommands registers and subscribes both token fetch commands
// against fetcher. On failure every subscription made so far is released.
func RegisterTokenCommands(
	adapter *RegistryAdapter,
	fetcher core.TokenFetcher,
	runnerOpts ...runner.Option,
) (TokenSubscriptions, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("gocommand: token fetcher is required")
	}
	subscriptions := TokenSubscriptions{}
	fetch, err := RegisterAndSubscribe[tokencommand.FetchTokenMessage](
		adapter,
		tokencommand.NewFetchTokenCommand(fetcher),
		runnerOpts...,
	)
	if err != nil {
		return nil, err
	}
	subscriptions = append(subscriptions, fetch)

	fromSecrets, err := RegisterAndSubscribe[tokencommand.FetchTokenFromSecretsMessage](
		adapter,
		tokencommand.NewFetchTokenFromSecretsCommand(fetcher),
		runnerOpts...,
	)
	if err != nil {
		subscriptions.Unsubscribe()
		return nil, err
	}
	return append(subscriptions, fromSecrets), nil
}

// DispatchFetchToken dispatches a FetchTokenMessage and returns the token
// the command stored in its result collector.
func DispatchFetchToken(ctx context.Context, creds core.Credentials) (core.Token, error) {
	return dispatchForToken(ctx, tokencommand.FetchTokenMessage{Credentials: creds})
}

func DispatchFetchTokenFromSecrets(ctx context.Context, source core.SecretSource) (core.Token, error) {
	return dispatchForToken(ctx, tokencommand.FetchTokenFromSecretsMessage{Source: source})
}

func dispatchForToken[T command.Message](ctx context.Context, msg T) (core.Token, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	collector := command.NewResult[core.Token]()
	ctx = command.ContextWithResult(ctx, collector)
	if err := commanddispatcher.Dispatch(ctx, msg); err != nil {
		return "", err
	}
	token, ok := collector.Load()
	if !ok {
		return "", fmt.Errorf("gocommand: %s produced no token", msg.Type())
	}
	return token, nil
}
