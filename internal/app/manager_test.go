package app

import (
	"context"
	"testing"
	"time"

	"github.com/lu-zhengda/aliaskit/internal/domain"
)

func TestFilterRules(t *testing.T) {
	rules := []domain.RoutingRule{
		{ID: 1, DomainName: "ex.com", MatchUser: "shop"},
		{ID: 2, DomainName: "ex.com", MatchUser: "postmaster"},
		{ID: 3, DomainName: "hidden.com", MatchUser: "news"},
		{ID: 4, DomainName: "other.com", MatchUser: "forum"},
	}
	settings := domain.Settings{
		HiddenDomains:   []string{"hidden.com"},
		SystemAliases:   []string{"postmaster"},
		SelectedDomains: []string{"ex.com"},
	}

	t.Run("default view", func(t *testing.T) {
		got := FilterRules(rules, settings, false)
		if len(got) != 1 || got[0].ID != 1 {
			t.Errorf("FilterRules() = %+v, want only rule 1", got)
		}
	})

	t.Run("all-domains view keeps unselected domains", func(t *testing.T) {
		got := FilterRules(rules, settings, true)
		if len(got) != 2 {
			t.Fatalf("FilterRules() returned %d rules, want 2", len(got))
		}
		// Hidden domain and system alias are still dropped.
		for _, r := range got {
			if r.DomainName == "hidden.com" || r.MatchUser == "postmaster" {
				t.Errorf("rule %+v should have been filtered", r)
			}
		}
	})

	t.Run("falls back to default domain", func(t *testing.T) {
		s := domain.Settings{DefaultDomain: "other.com"}
		got := FilterRules(rules, s, false)
		if len(got) != 1 || got[0].ID != 4 {
			t.Errorf("FilterRules() = %+v, want only rule 4", got)
		}
	})
}

func TestVisibleUsers(t *testing.T) {
	settings := domain.Settings{HiddenUsers: []string{"archive@ex.com"}}
	got := VisibleUsers([]string{"me@ex.com", "archive@ex.com"}, settings)
	if len(got) != 1 || got[0] != "me@ex.com" {
		t.Errorf("VisibleUsers() = %v, want [me@ex.com]", got)
	}
}

func TestMarkSpam_EndToEnd(t *testing.T) {
	p := &fakeProvider{
		rules: []domain.RoutingRule{
			{ID: 5, DomainName: "ex.com", MatchUser: "shop", TargetAddresses: []string{"u@ex.com"}},
		},
	}
	m := NewManager(p, newFakeStore(), nil)
	settings := domain.Settings{SpamEmail: "spam@ex.com"}

	if err := m.MarkSpam(context.Background(), p.rules[0], settings); err != nil {
		t.Fatalf("MarkSpam() error: %v", err)
	}

	// The original rule is gone and exactly one replacement exists.
	var replacements []domain.RoutingRule
	for _, r := range p.rules {
		if r.ID == 5 {
			t.Errorf("rule 5 still exists after MarkSpam")
		}
		if r.MatchUser == "shop" && r.DomainName == "ex.com" {
			replacements = append(replacements, r)
		}
	}
	if len(replacements) != 1 {
		t.Fatalf("found %d replacement rules, want 1", len(replacements))
	}
	if got := replacements[0].TargetAddresses; len(got) != 1 || got[0] != "spam@ex.com" {
		t.Errorf("replacement targets = %v, want [spam@ex.com]", got)
	}
}

func TestMarkSpam_CustomOverrideWins(t *testing.T) {
	p := &fakeProvider{
		rules: []domain.RoutingRule{
			{ID: 5, DomainName: "ex.com", MatchUser: "shop", TargetAddresses: []string{"u@ex.com"}},
		},
	}
	m := NewManager(p, newFakeStore(), nil)
	settings := domain.Settings{SpamEmail: "spam@ex.com", CustomSpamEmail: "junk@other.com"}

	if err := m.MarkSpam(context.Background(), p.rules[0], settings); err != nil {
		t.Fatalf("MarkSpam() error: %v", err)
	}
	if got := p.created[0].TargetAddresses[0]; got != "junk@other.com" {
		t.Errorf("spam target = %q, want the custom override", got)
	}
}

func TestMarkSpam_NoSpamAddress(t *testing.T) {
	p := &fakeProvider{}
	m := NewManager(p, newFakeStore(), nil)

	err := m.MarkSpam(context.Background(), domain.RoutingRule{ID: 5}, domain.Settings{})
	if err == nil {
		t.Fatal("MarkSpam() succeeded without a spam address")
	}
	if len(p.created)+len(p.deleted) != 0 {
		t.Error("MarkSpam() touched the provider despite the precondition failure")
	}
}

func TestMarkSpam_CreateBeforeDelete(t *testing.T) {
	// A create failure must leave the original rule untouched.
	p := &fakeProvider{
		rules: []domain.RoutingRule{
			{ID: 5, DomainName: "ex.com", MatchUser: "shop", TargetAddresses: []string{"u@ex.com"}},
		},
		createErr: errBoom,
	}
	m := NewManager(p, newFakeStore(), nil)

	err := m.MarkSpam(context.Background(), p.rules[0], domain.Settings{SpamEmail: "spam@ex.com"})
	if err == nil {
		t.Fatal("MarkSpam() succeeded despite create failure")
	}
	if len(p.deleted) != 0 {
		t.Error("original rule was deleted even though the replacement failed")
	}
	if len(p.rules) != 1 || p.rules[0].ID != 5 {
		t.Errorf("rules = %+v, want the original rule preserved", p.rules)
	}
}

func TestDeleteAlias_RemovesHistoryBestEffort(t *testing.T) {
	st := newFakeStore()
	st.history = []domain.CreatedAlias{
		{Alias: "shop@ex.com", TargetAddress: "u@ex.com", CreatedAt: time.Now()},
	}
	p := &fakeProvider{
		rules: []domain.RoutingRule{
			{ID: 5, DomainName: "ex.com", MatchUser: "shop", TargetAddresses: []string{"u@ex.com"}},
		},
	}
	m := NewManager(p, st, nil)

	if err := m.DeleteAlias(context.Background(), p.rules[0]); err != nil {
		t.Fatalf("DeleteAlias() error: %v", err)
	}
	if len(st.history) != 0 {
		t.Errorf("history has %d records, want 0", len(st.history))
	}

	t.Run("history failure does not block delete", func(t *testing.T) {
		st := newFakeStore()
		st.removeErr = errBoom
		p := &fakeProvider{
			rules: []domain.RoutingRule{
				{ID: 6, DomainName: "ex.com", MatchUser: "news", TargetAddresses: []string{"u@ex.com"}},
			},
		}
		m := NewManager(p, st, nil)
		if err := m.DeleteAlias(context.Background(), p.rules[0]); err != nil {
			t.Fatalf("DeleteAlias() error: %v, want history failure swallowed", err)
		}
	})
}

func TestLoadOverview_FiltersSharedDomains(t *testing.T) {
	p := &fakeProvider{
		domains: []domain.Domain{
			{Name: "ex.com"},
			{Name: "shared.net", IsShared: true},
		},
		users: []string{"me@ex.com"},
	}
	m := NewManager(p, newFakeStore(), nil)

	ov, err := m.LoadOverview(context.Background())
	if err != nil {
		t.Fatalf("LoadOverview() error: %v", err)
	}
	if len(ov.Domains) != 1 || ov.Domains[0].Name != "ex.com" {
		t.Errorf("Domains = %+v, want shared domains excluded", ov.Domains)
	}
	if len(ov.Users) != 1 {
		t.Errorf("Users = %v, want [me@ex.com]", ov.Users)
	}
}

func TestRecentAliases(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	recA := domain.CreatedAlias{
		Alias:      "a@ex.com",
		CreatedAt:  now.Add(-48 * time.Hour),
		CreatedFor: "https://shop.example/signup",
	}
	recB := domain.CreatedAlias{
		Alias:      "b@ex.com",
		CreatedAt:  now.Add(-1 * time.Hour),
		CreatedFor: "https://news.example/",
	}

	t.Run("current-host match outranks recency", func(t *testing.T) {
		got := RecentAliases([]domain.CreatedAlias{recB, recA}, "shop.example", now)
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
		if got[0].Alias != "a@ex.com" {
			t.Errorf("got[0] = %q, want the host-matching alias first", got[0].Alias)
		}
	})

	t.Run("no host match sorts by recency", func(t *testing.T) {
		got := RecentAliases([]domain.CreatedAlias{recA, recB}, "other.example", now)
		if got[0].Alias != "b@ex.com" {
			t.Errorf("got[0] = %q, want the newest alias first", got[0].Alias)
		}
	})

	t.Run("entries older than 7 days are windowed out", func(t *testing.T) {
		stale := domain.CreatedAlias{Alias: "old@ex.com", CreatedAt: now.Add(-8 * 24 * time.Hour)}
		got := RecentAliases([]domain.CreatedAlias{stale, recA}, "", now)
		if len(got) != 1 || got[0].Alias != "a@ex.com" {
			t.Errorf("got %+v, want only the fresh record", got)
		}
	})

	t.Run("capped at five", func(t *testing.T) {
		var records []domain.CreatedAlias
		for i := 0; i < 8; i++ {
			records = append(records, domain.CreatedAlias{
				Alias:     "x@ex.com",
				CreatedAt: now.Add(-time.Duration(i) * time.Hour),
			})
		}
		if got := RecentAliases(records, "", now); len(got) != 5 {
			t.Errorf("got %d records, want 5", len(got))
		}
	})
}
