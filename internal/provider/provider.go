package provider

import (
	"context"

	"github.com/lu-zhengda/aliaskit/internal/domain"
)

// CreateRuleRequest describes a routing rule to create.
type CreateRuleRequest struct {
	DomainName      string
	Prefix          bool
	MatchUser       string
	TargetAddresses []string
	Catchall        bool
}

// AliasProvider is the remote mail provider contract: one operation per
// remote capability. Rules are never mutated in place; an edit is modeled as
// create plus delete.
type AliasProvider interface {
	ListDomains(ctx context.Context, includeShared bool) ([]domain.Domain, error)
	ListUsers(ctx context.Context) ([]string, error)
	ListRoutingRules(ctx context.Context) ([]domain.RoutingRule, error)
	CreateRoutingRule(ctx context.Context, req CreateRuleRequest) error
	DeleteRoutingRule(ctx context.Context, id int64) error
}
