package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/lu-zhengda/aliaskit/internal/detect"
	"github.com/lu-zhengda/aliaskit/internal/domain"
)

func TestToJSONDomains(t *testing.T) {
	domains := []domain.Domain{
		{
			Name: "example.com",
			DNS:  domain.DNSSummary{PassesMX: true, PassesSPF: true, PassesDKIM: true, PassesDMARC: false},
		},
		{
			Name:     "shared.net",
			IsShared: true,
		},
	}

	got := toJSONDomains(domains)

	if len(got) != 2 {
		t.Fatalf("got %d domains, want 2", len(got))
	}
	if got[0].Name != "example.com" {
		t.Errorf("got name %q, want %q", got[0].Name, "example.com")
	}
	if !got[0].PassesMX || got[0].PassesDMARC {
		t.Errorf("got DNS flags %+v, want MX pass and DMARC fail", got[0])
	}
	if !got[1].Shared {
		t.Error("got shared=false, want true")
	}

	// Verify JSON round-trip.
	var buf bytes.Buffer
	if err := fprintJSON(&buf, got); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}
	var parsed []jsonDomain
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if parsed[1].Name != "shared.net" {
		t.Errorf("round-trip: got name %q, want %q", parsed[1].Name, "shared.net")
	}
}

func TestToJSONDomains_Empty(t *testing.T) {
	got := toJSONDomains(nil)
	if len(got) != 0 {
		t.Errorf("got %d domains for nil input, want 0", len(got))
	}

	var buf bytes.Buffer
	if err := fprintJSON(&buf, got); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("got %q, want %q", got, "[]\n")
	}
}

func TestToJSONRules(t *testing.T) {
	rules := []domain.RoutingRule{
		{
			ID:              7,
			DomainName:      "example.com",
			MatchUser:       "shop",
			TargetAddresses: []string{"me@example.com"},
		},
		{
			ID:              8,
			DomainName:      "example.com",
			MatchUser:       "news",
			TargetAddresses: []string{"spam@example.com"},
		},
	}
	settings := domain.Settings{SpamEmail: "spam@example.com"}

	got := toJSONRules(rules, settings)

	if len(got) != 2 {
		t.Fatalf("got %d rules, want 2", len(got))
	}
	if got[0].Address != "shop@example.com" {
		t.Errorf("got address %q, want %q", got[0].Address, "shop@example.com")
	}
	if got[0].Spam {
		t.Error("got spam=true for a normal rule, want false")
	}
	if !got[1].Spam {
		t.Error("got spam=false for a spam-targeting rule, want true")
	}

	// Verify JSON round-trip.
	var buf bytes.Buffer
	if err := fprintJSON(&buf, got); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}
	var parsed []jsonRule
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if parsed[0].ID != 7 {
		t.Errorf("round-trip: got ID %d, want 7", parsed[0].ID)
	}
}

func TestToJSONRecent(t *testing.T) {
	records := []domain.CreatedAlias{
		{
			Alias:         "shop123@example.com",
			TargetAddress: "me@example.com",
			CreatedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
			CreatedFor:    "https://shop.example/signup",
		},
		{
			Alias:         "news456@example.com",
			TargetAddress: "me@example.com",
			CreatedAt:     time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
		},
	}

	got := toJSONRecent(records)

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Alias != "shop123@example.com" {
		t.Errorf("got alias %q, want %q", got[0].Alias, "shop123@example.com")
	}
	if got[0].CreatedAt != "2026-08-30T10:00:00Z" {
		t.Errorf("got created_at %q, want %q", got[0].CreatedAt, "2026-08-30T10:00:00Z")
	}

	// Verify created_for is omitted when empty.
	var buf bytes.Buffer
	if err := fprintJSON(&buf, got[1]); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if _, ok := raw["created_for"]; ok {
		t.Error("created_for should be omitted when empty")
	}
}

func TestToJSONFields(t *testing.T) {
	fields := []detect.Field{
		{Type: "email", Name: "user_email", ID: "signup-email", Placeholder: "Your email"},
		{Type: "text", Name: "email"},
	}

	got := toJSONFields(fields)

	if len(got) != 2 {
		t.Fatalf("got %d fields, want 2", len(got))
	}
	if got[0].Placeholder != "Your email" {
		t.Errorf("got placeholder %q, want %q", got[0].Placeholder, "Your email")
	}

	// Empty attributes are omitted.
	var buf bytes.Buffer
	if err := fprintJSON(&buf, got[1]); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	for _, field := range []string{"id", "placeholder"} {
		if _, ok := raw[field]; ok {
			t.Errorf("field %q should be omitted when empty", field)
		}
	}
}

func TestJSONAction_OmitsEmpty(t *testing.T) {
	input := jsonAction{OK: true, Action: "setup"}

	var buf bytes.Buffer
	if err := fprintJSON(&buf, input); err != nil {
		t.Fatalf("fprintJSON() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	omittedFields := []string{"alias", "target", "error"}
	for _, field := range omittedFields {
		if _, ok := raw[field]; ok {
			t.Errorf("field %q should be omitted when empty, got %s", field, string(raw[field]))
		}
	}

	requiredFields := []string{"ok", "action"}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			t.Errorf("field %q should always be present", field)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single", "example.com", []string{"example.com"}},
		{"multiple with spaces", "a.com, b.com ,c.com", []string{"a.com", "b.com", "c.com"}},
		{"trailing comma", "a.com,", []string{"a.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitList(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("splitList(%q) = %v, want %v", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("splitList(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
				}
			}
		})
	}
}
