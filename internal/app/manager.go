package app

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/provider"
	"github.com/lu-zhengda/aliaskit/internal/store"
)

// Recent-alias display window and cap.
const (
	recentWindow = 7 * 24 * time.Hour
	recentShown  = 5
)

// Manager implements the alias management flows: listing with the configured
// filters, create, delete, and re-pointing an alias at the spam address.
// Like the orchestrator, it catches storage failures on best-effort paths.
type Manager struct {
	client provider.AliasProvider
	store  store.Store
	logger *zap.Logger
}

// NewManager creates a Manager.
func NewManager(client provider.AliasProvider, st store.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{client: client, store: st, logger: logger}
}

// Overview is one consistent fetch of the remote state.
type Overview struct {
	Domains []domain.Domain
	Users   []string
	Rules   []domain.RoutingRule
}

// LoadOverview fetches domains, users, and routing rules. Shared domains are
// excluded from the working set.
func (m *Manager) LoadOverview(ctx context.Context) (*Overview, error) {
	domains, err := m.client.ListDomains(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	owned := domains[:0]
	for _, d := range domains {
		if !d.IsShared {
			owned = append(owned, d)
		}
	}

	users, err := m.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rules, err := m.client.ListRoutingRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routing rules: %w", err)
	}

	return &Overview{Domains: owned, Users: users, Rules: rules}, nil
}

// VisibleUsers drops users on the hidden list.
func VisibleUsers(users []string, settings domain.Settings) []string {
	hidden := make(map[string]bool, len(settings.HiddenUsers))
	for _, u := range settings.HiddenUsers {
		hidden[u] = true
	}
	out := make([]string, 0, len(users))
	for _, u := range users {
		if !hidden[u] {
			out = append(out, u)
		}
	}
	return out
}

// FilterRules applies the alias list filters in order: drop rules in hidden
// domains, drop system aliases, and for the default view restrict to the
// selected domains (falling back to the default domain when no explicit
// selection exists). allDomains skips the last restriction.
func FilterRules(rules []domain.RoutingRule, settings domain.Settings, allDomains bool) []domain.RoutingRule {
	hiddenDomains := make(map[string]bool, len(settings.HiddenDomains))
	for _, d := range settings.HiddenDomains {
		hiddenDomains[d] = true
	}
	systemAliases := make(map[string]bool, len(settings.SystemAliases))
	for _, a := range settings.SystemAliases {
		systemAliases[a] = true
	}

	var show map[string]bool
	if !allDomains {
		selected := settings.SelectedDomains
		if len(selected) == 0 && settings.DefaultDomain != "" {
			selected = []string{settings.DefaultDomain}
		}
		show = make(map[string]bool, len(selected))
		for _, d := range selected {
			show[d] = true
		}
	}

	out := make([]domain.RoutingRule, 0, len(rules))
	for _, r := range rules {
		if hiddenDomains[r.DomainName] {
			continue
		}
		if systemAliases[r.MatchUser] {
			continue
		}
		if show != nil && !show[r.DomainName] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CreateAlias creates a routing rule for name@domainName targeting target.
func (m *Manager) CreateAlias(ctx context.Context, name, domainName, target string) error {
	err := m.client.CreateRoutingRule(ctx, provider.CreateRuleRequest{
		DomainName:      domainName,
		Prefix:          false,
		MatchUser:       name,
		TargetAddresses: []string{target},
		Catchall:        false,
	})
	if err != nil {
		return fmt.Errorf("failed to create alias %s@%s: %w", name, domainName, err)
	}
	return nil
}

// DeleteAlias deletes the rule and best-effort removes its history record.
// A history removal failure is logged, never surfaced: it must not block the
// delete it accompanies.
func (m *Manager) DeleteAlias(ctx context.Context, rule domain.RoutingRule) error {
	if err := m.client.DeleteRoutingRule(ctx, rule.ID); err != nil {
		return fmt.Errorf("failed to delete alias %s: %w", rule.Address(), err)
	}
	if err := m.store.RemoveCreatedAliasByAddress(ctx, rule.Address()); err != nil {
		m.logger.Warn("failed to remove alias history record",
			zap.String("alias", rule.Address()), zap.Error(err))
	}
	return nil
}

// MarkSpam re-points a rule at the configured spam address. The replacement
// rule is created before the old one is deleted, so a failure between the
// two steps leaves the alias routable instead of silently lost.
func (m *Manager) MarkSpam(ctx context.Context, rule domain.RoutingRule, settings domain.Settings) error {
	spam := settings.SpamAddress()
	if spam == "" {
		return &ConfigError{Reason: "spam address not configured"}
	}

	if err := m.client.CreateRoutingRule(ctx, provider.CreateRuleRequest{
		DomainName:      rule.DomainName,
		Prefix:          rule.Prefix,
		MatchUser:       rule.MatchUser,
		TargetAddresses: []string{spam},
		Catchall:        rule.Catchall,
	}); err != nil {
		return fmt.Errorf("failed to create spam rule for %s: %w", rule.Address(), err)
	}

	if err := m.client.DeleteRoutingRule(ctx, rule.ID); err != nil {
		return fmt.Errorf("spam rule created but failed to delete original rule %d: %w", rule.ID, err)
	}
	return nil
}

// RecentAliases returns the history entries worth showing: created within
// the last 7 days, at most 5, with aliases created for the current hostname
// ranked first and everything else by creation time descending.
func RecentAliases(records []domain.CreatedAlias, currentHost string, now time.Time) []domain.CreatedAlias {
	cutoff := now.Add(-recentWindow)

	fresh := make([]domain.CreatedAlias, 0, len(records))
	for _, r := range records {
		if r.CreatedAt.After(cutoff) {
			fresh = append(fresh, r)
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		mi := currentHost != "" && recordHost(fresh[i]) == currentHost
		mj := currentHost != "" && recordHost(fresh[j]) == currentHost
		if mi != mj {
			return mi
		}
		return fresh[i].CreatedAt.After(fresh[j].CreatedAt)
	})

	if len(fresh) > recentShown {
		fresh = fresh[:recentShown]
	}
	return fresh
}

func recordHost(r domain.CreatedAlias) string {
	u, err := url.Parse(r.CreatedFor)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
