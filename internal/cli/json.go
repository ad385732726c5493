package cli

import (
	"time"

	"github.com/lu-zhengda/aliaskit/internal/detect"
	"github.com/lu-zhengda/aliaskit/internal/domain"
)

// ---------------------------------------------------------------------------
// Domain JSON types (domains)
// ---------------------------------------------------------------------------

type jsonDomain struct {
	Name        string `json:"name"`
	Shared      bool   `json:"shared"`
	PassesMX    bool   `json:"passes_mx"`
	PassesSPF   bool   `json:"passes_spf"`
	PassesDKIM  bool   `json:"passes_dkim"`
	PassesDMARC bool   `json:"passes_dmarc"`
}

func toJSONDomains(domains []domain.Domain) []jsonDomain {
	out := make([]jsonDomain, 0, len(domains))
	for _, d := range domains {
		out = append(out, jsonDomain{
			Name:        d.Name,
			Shared:      d.IsShared,
			PassesMX:    d.DNS.PassesMX,
			PassesSPF:   d.DNS.PassesSPF,
			PassesDKIM:  d.DNS.PassesDKIM,
			PassesDMARC: d.DNS.PassesDMARC,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Routing rule JSON type (alias list)
// ---------------------------------------------------------------------------

type jsonRule struct {
	ID       int64    `json:"id"`
	Address  string   `json:"address"`
	Domain   string   `json:"domain"`
	Targets  []string `json:"targets"`
	Catchall bool     `json:"catchall,omitempty"`
	Spam     bool     `json:"spam,omitempty"`
}

func toJSONRules(rules []domain.RoutingRule, settings domain.Settings) []jsonRule {
	out := make([]jsonRule, 0, len(rules))
	for _, r := range rules {
		spam := false
		for _, t := range r.TargetAddresses {
			if settings.IsSpamTarget(t) {
				spam = true
				break
			}
		}
		out = append(out, jsonRule{
			ID:       r.ID,
			Address:  r.Address(),
			Domain:   r.DomainName,
			Targets:  r.TargetAddresses,
			Catchall: r.Catchall,
			Spam:     spam,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// History JSON type (recent)
// ---------------------------------------------------------------------------

type jsonRecent struct {
	Alias      string `json:"alias"`
	Target     string `json:"target"`
	CreatedAt  string `json:"created_at"`
	CreatedFor string `json:"created_for,omitempty"`
}

func toJSONRecent(records []domain.CreatedAlias) []jsonRecent {
	out := make([]jsonRecent, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecent{
			Alias:      r.Alias,
			Target:     r.TargetAddress,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
			CreatedFor: r.CreatedFor,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Detected field JSON type (scan)
// ---------------------------------------------------------------------------

type jsonField struct {
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

func toJSONFields(fields []detect.Field) []jsonField {
	out := make([]jsonField, 0, len(fields))
	for _, f := range fields {
		out = append(out, jsonField{
			Type:        f.Type,
			Name:        f.Name,
			ID:          f.ID,
			Placeholder: f.Placeholder,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (setup, create, delete, spam, config set, etc.)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK     bool   `json:"ok"`
	Action string `json:"action"`
	Alias  string `json:"alias,omitempty"`
	Target string `json:"target,omitempty"`
	Error  string `json:"error,omitempty"`
}
