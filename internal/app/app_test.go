package app

import (
	"context"
	"errors"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/provider"
)

// fakeProvider is an in-memory AliasProvider with error injection.
type fakeProvider struct {
	domains  []domain.Domain
	users    []string
	usersErr error

	rules     []domain.RoutingRule
	nextID    int64
	createErr error
	deleteErr error

	created []provider.CreateRuleRequest
	deleted []int64
}

func (f *fakeProvider) ListDomains(ctx context.Context, includeShared bool) ([]domain.Domain, error) {
	return f.domains, nil
}

func (f *fakeProvider) ListUsers(ctx context.Context) ([]string, error) {
	return f.users, f.usersErr
}

func (f *fakeProvider) ListRoutingRules(ctx context.Context) ([]domain.RoutingRule, error) {
	return f.rules, nil
}

func (f *fakeProvider) CreateRoutingRule(ctx context.Context, req provider.CreateRuleRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, req)
	f.nextID++
	f.rules = append(f.rules, domain.RoutingRule{
		ID:              1000 + f.nextID,
		DomainName:      req.DomainName,
		Prefix:          req.Prefix,
		MatchUser:       req.MatchUser,
		TargetAddresses: req.TargetAddresses,
		Catchall:        req.Catchall,
	})
	return nil
}

func (f *fakeProvider) DeleteRoutingRule(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			break
		}
	}
	return nil
}

var _ provider.AliasProvider = (*fakeProvider)(nil)

// fakeStore is an in-memory settings/history store with error injection.
type fakeStore struct {
	settings    domain.Settings
	settingsErr error

	history   []domain.CreatedAlias
	appendErr error
	removeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: domain.DefaultSettings()}
}

func (f *fakeStore) Settings(ctx context.Context) (domain.Settings, error) {
	if f.settingsErr != nil {
		return domain.Settings{}, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeStore) SaveSettings(ctx context.Context, patch domain.SettingsPatch) error {
	patch.Apply(&f.settings)
	return nil
}

func (f *fakeStore) ResetSettings(ctx context.Context) error {
	f.settings = domain.DefaultSettings()
	return nil
}

func (f *fakeStore) IsFirstRun(ctx context.Context) (bool, error) {
	return f.settings.IsFirstRun, nil
}

func (f *fakeStore) SetFirstRunComplete(ctx context.Context) error {
	f.settings.IsFirstRun = false
	return nil
}

func (f *fakeStore) ListCreatedAliases(ctx context.Context) ([]domain.CreatedAlias, error) {
	return f.history, nil
}

func (f *fakeStore) AppendCreatedAlias(ctx context.Context, rec domain.CreatedAlias) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.history = append(f.history, rec)
	return nil
}

func (f *fakeStore) RemoveCreatedAliasByAddress(ctx context.Context, address string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	kept := f.history[:0]
	for _, r := range f.history {
		if r.Alias != address {
			kept = append(kept, r)
		}
	}
	f.history = kept
	return nil
}

func (f *fakeStore) Close() error { return nil }

var errBoom = errors.New("boom")
