package purelymail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lu-zhengda/aliaskit/internal/domain"
	"github.com/lu-zhengda/aliaskit/internal/provider"
)

// DefaultBaseURL is the production Purelymail endpoint.
const DefaultBaseURL = "https://purelymail.com"

const tokenHeader = "Purelymail-Api-Token"

// Client implements provider.AliasProvider against the Purelymail REST API.
// Every call is a POST of a JSON body under /api/v0; failures propagate
// immediately, with no retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL and API token. A nil
// httpClient falls back to http.DefaultClient.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

// envelope is the {result, error?} wrapper every Purelymail response uses.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call posts body to /api/v0/<op> and unwraps the response envelope into out.
// A present envelope error wins over the HTTP status; a non-2xx response
// without one becomes a TransportError.
func (c *Client) call(ctx context.Context, op string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v0/"+op, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", op, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if decodeErr == nil && env.Error != nil {
		return &ProviderError{Code: env.Error.Code, Message: env.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, decodeErr)
	}

	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", op, err)
		}
	}
	return nil
}

// --- wire types ---

type wireDNSSummary struct {
	PassesMX    bool `json:"passesMx"`
	PassesSPF   bool `json:"passesSpf"`
	PassesDKIM  bool `json:"passesDkim"`
	PassesDMARC bool `json:"passesDmarc"`
}

type wireDomain struct {
	Name                  string         `json:"name"`
	AllowAccountReset     bool           `json:"allowAccountReset"`
	SymbolicSubaddressing bool           `json:"symbolicSubaddressing"`
	IsShared              bool           `json:"isShared"`
	DNSSummary            wireDNSSummary `json:"dnsSummary"`
}

type wireRoutingRule struct {
	ID              int64    `json:"id"`
	DomainName      string   `json:"domainName"`
	Prefix          bool     `json:"prefix"`
	MatchUser       string   `json:"matchUser"`
	TargetAddresses []string `json:"targetAddresses"`
	Catchall        bool     `json:"catchall"`
}

// ListDomains returns the account's domains, optionally including shared ones.
func (c *Client) ListDomains(ctx context.Context, includeShared bool) ([]domain.Domain, error) {
	var result struct {
		Domains []wireDomain `json:"domains"`
	}
	req := struct {
		IncludeShared bool `json:"includeShared"`
	}{IncludeShared: includeShared}

	if err := c.call(ctx, "listDomains", req, &result); err != nil {
		return nil, err
	}

	domains := make([]domain.Domain, 0, len(result.Domains))
	for _, d := range result.Domains {
		domains = append(domains, domain.Domain{
			Name:                  d.Name,
			AllowAccountReset:     d.AllowAccountReset,
			SymbolicSubaddressing: d.SymbolicSubaddressing,
			IsShared:              d.IsShared,
			DNS: domain.DNSSummary{
				PassesMX:    d.DNSSummary.PassesMX,
				PassesSPF:   d.DNSSummary.PassesSPF,
				PassesDKIM:  d.DNSSummary.PassesDKIM,
				PassesDMARC: d.DNSSummary.PassesDMARC,
			},
		})
	}
	return domains, nil
}

// ListUsers returns the account's user names.
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	var result struct {
		Users []string `json:"users"`
	}
	if err := c.call(ctx, "listUser", struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

// ListRoutingRules returns all routing rules for the account.
func (c *Client) ListRoutingRules(ctx context.Context) ([]domain.RoutingRule, error) {
	var result struct {
		Rules []wireRoutingRule `json:"rules"`
	}
	if err := c.call(ctx, "listRoutingRules", struct{}{}, &result); err != nil {
		return nil, err
	}

	rules := make([]domain.RoutingRule, 0, len(result.Rules))
	for _, r := range result.Rules {
		rules = append(rules, domain.RoutingRule{
			ID:              r.ID,
			DomainName:      r.DomainName,
			Prefix:          r.Prefix,
			MatchUser:       r.MatchUser,
			TargetAddresses: r.TargetAddresses,
			Catchall:        r.Catchall,
		})
	}
	return rules, nil
}

// CreateRoutingRule creates a new routing rule.
func (c *Client) CreateRoutingRule(ctx context.Context, req provider.CreateRuleRequest) error {
	body := struct {
		DomainName      string   `json:"domainName"`
		Prefix          bool     `json:"prefix"`
		MatchUser       string   `json:"matchUser"`
		TargetAddresses []string `json:"targetAddresses"`
		Catchall        bool     `json:"catchall"`
	}{
		DomainName:      req.DomainName,
		Prefix:          req.Prefix,
		MatchUser:       req.MatchUser,
		TargetAddresses: req.TargetAddresses,
		Catchall:        req.Catchall,
	}
	return c.call(ctx, "createRoutingRule", body, nil)
}

// DeleteRoutingRule deletes the routing rule with the given id.
func (c *Client) DeleteRoutingRule(ctx context.Context, id int64) error {
	body := struct {
		RoutingRuleID int64 `json:"routingRuleId"`
	}{RoutingRuleID: id}
	return c.call(ctx, "deleteRoutingRule", body, nil)
}

// Compile-time interface compliance check.
var _ provider.AliasProvider = (*Client)(nil)
