// Package app mediates between the field-detection side, which has no
// network access, and the API client and settings store. It also implements
// the alias management flows behind the CLI.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/provider"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

// ConfigError is a local precondition failure: missing credential or an
// unresolvable target address.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// TokenSource yields the stored API credential, if any.
type TokenSource interface {
	LoadToken() (string, error)
}

// ClientFactory builds an API client for a resolved token.
type ClientFactory func(token string) provider.AliasProvider

// Orchestrator serves create-alias intents. It is the terminal error
// boundary for that flow: every request resolves to a structured response,
// never a propagated failure.
type Orchestrator struct {
	store     store.Store
	tokens    TokenSource
	newClient ClientFactory
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator creates an Orchestrator. tokens may be nil when no keyring
// is available; the settings record's token is the fallback either way.
func NewOrchestrator(st store.Store, tokens TokenSource, factory ClientFactory, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     st,
		tokens:    tokens,
		newClient: factory,
		logger:    logger,
		now:       time.Now,
	}
}

// ResolveToken returns the API credential: keyring first, then the settings
// record. Empty means not configured.
func (o *Orchestrator) ResolveToken(settings domain.Settings) string {
	if o.tokens != nil {
		if token, err := o.tokens.LoadToken(); err == nil && token != "" {
			return token
		}
	}
	return settings.APIToken
}

// CreateAlias handles one create-alias intent. Each precondition
// short-circuits with a failure response; any error from the API or storage
// layers is caught here and mapped to the response.
func (o *Orchestrator) CreateAlias(ctx context.Context, req Request) Response {
	settings, err := o.store.Settings(ctx)
	if err != nil {
		return failure(err)
	}

	token := o.ResolveToken(settings)
	if token == "" {
		return failure(&ConfigError{Reason: "API token not configured"})
	}
	client := o.newClient(token)

	target, err := o.resolveTarget(ctx, client, settings)
	if err != nil {
		return failure(err)
	}

	if err := client.CreateRoutingRule(ctx, provider.CreateRuleRequest{
		DomainName:      req.Domain,
		Prefix:          false,
		MatchUser:       req.AliasName,
		TargetAddresses: []string{target},
		Catchall:        false,
	}); err != nil {
		return failure(err)
	}

	alias := req.AliasName + "@" + req.Domain
	rec := domain.CreatedAlias{
		Alias:         alias,
		TargetAddress: target,
		CreatedAt:     o.now().UTC(),
		CreatedFor:    req.CurrentURL,
	}
	if err := o.store.AppendCreatedAlias(ctx, rec); err != nil {
		// Best effort: the rule exists remotely, so history bookkeeping
		// must not fail the creation.
		o.logger.Warn("failed to record created alias",
			zap.String("alias", alias), zap.Error(err))
	}

	return Response{Success: true, Alias: alias}
}

// resolveTarget picks the address new aliases route to: the configured
// default account, else the first account the provider reports.
func (o *Orchestrator) resolveTarget(ctx context.Context, client provider.AliasProvider, settings domain.Settings) (string, error) {
	if settings.DefaultAccount != "" {
		return settings.DefaultAccount, nil
	}
	users, err := client.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", &ConfigError{Reason: "no target address"}
	}
	return users[0], nil
}

// Serve answers requests from the bus until ctx is done. The page side may
// block on its response callback, so every request is responded to.
func (o *Orchestrator) Serve(ctx context.Context, bus *Bus) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-bus.Requests():
			switch req.Action {
			case ActionCreateAlias:
				req.Respond(o.CreateAlias(ctx, req))
			case ActionOpenSettings:
				// Surfacing the settings UI belongs to the host; the
				// contract only requires acknowledging the request.
				req.Respond(Response{Success: true})
			default:
				req.Respond(Response{Error: "unknown action"})
			}
		}
	}
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
