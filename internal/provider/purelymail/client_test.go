package purelymail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lu-zhengda/aliaskit/internal/provider"
)

func providerCreateReq() provider.CreateRuleRequest {
	return provider.CreateRuleRequest{
		DomainName:      "ex.com",
		MatchUser:       "shop",
		TargetAddresses: []string{"u@ex.com"},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token", srv.Client())
}

func TestClient_ListDomains(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("Purelymail-Api-Token")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result":{"domains":[
			{"name":"ex.com","allowAccountReset":true,"symbolicSubaddressing":false,
			 "isShared":false,
			 "dnsSummary":{"passesMx":true,"passesSpf":true,"passesDkim":false,"passesDmarc":false}}
		]}}`))
	})

	domains, err := c.ListDomains(context.Background(), true)
	if err != nil {
		t.Fatalf("ListDomains() error: %v", err)
	}
	if gotPath != "/api/v0/listDomains" {
		t.Errorf("path = %q, want %q", gotPath, "/api/v0/listDomains")
	}
	if gotToken != "test-token" {
		t.Errorf("token header = %q, want %q", gotToken, "test-token")
	}
	if gotBody["includeShared"] != true {
		t.Errorf("includeShared = %v, want true", gotBody["includeShared"])
	}
	if len(domains) != 1 {
		t.Fatalf("got %d domains, want 1", len(domains))
	}
	d := domains[0]
	if d.Name != "ex.com" || !d.AllowAccountReset || d.IsShared {
		t.Errorf("unexpected domain: %+v", d)
	}
	if !d.DNS.PassesMX || !d.DNS.PassesSPF || d.DNS.PassesDKIM || d.DNS.PassesDMARC {
		t.Errorf("unexpected DNS summary: %+v", d.DNS)
	}
}

func TestClient_ListUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v0/listUser" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/v0/listUser")
		}
		w.Write([]byte(`{"result":{"users":["a@ex.com","b@ex.com"]}}`))
	})

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 2 || users[0] != "a@ex.com" {
		t.Errorf("users = %v, want [a@ex.com b@ex.com]", users)
	}
}

func TestClient_ListRoutingRules(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"rules":[
			{"id":5,"domainName":"ex.com","prefix":false,"matchUser":"shop",
			 "targetAddresses":["u@ex.com"],"catchall":false}
		]}}`))
	})

	rules, err := c.ListRoutingRules(context.Background())
	if err != nil {
		t.Fatalf("ListRoutingRules() error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if rules[0].ID != 5 || rules[0].MatchUser != "shop" {
		t.Errorf("unexpected rule: %+v", rules[0])
	}
}

func TestClient_EnvelopeErrorIsAuthoritative(t *testing.T) {
	// A well-formed error envelope wins even when the HTTP status is 200 ...
	t.Run("status 200", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":null,"error":{"code":"invalid_domain","message":"no such domain"}}`))
		})
		err := c.DeleteRoutingRule(context.Background(), 1)
		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("error = %v, want *ProviderError", err)
		}
		if pe.Code != "invalid_domain" || pe.Message != "no such domain" {
			t.Errorf("ProviderError = %+v, want code invalid_domain", pe)
		}
	})

	// ... and also when it is not.
	t.Run("status 400", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"result":null,"error":{"code":"bad_request","message":"nope"}}`))
		})
		err := c.DeleteRoutingRule(context.Background(), 1)
		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("error = %v, want *ProviderError", err)
		}
		if pe.Code != "bad_request" {
			t.Errorf("code = %q, want %q", pe.Code, "bad_request")
		}
	})
}

func TestClient_TransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	_, err := c.ListUsers(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", te.StatusCode, http.StatusBadGateway)
	}
}

func TestClient_CreateRoutingRule(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result":{}}`))
	})

	err := c.CreateRoutingRule(context.Background(), providerCreateReq())
	if err != nil {
		t.Fatalf("CreateRoutingRule() error: %v", err)
	}
	if gotBody["domainName"] != "ex.com" || gotBody["matchUser"] != "shop" {
		t.Errorf("body = %v", gotBody)
	}
	if gotBody["catchall"] != false || gotBody["prefix"] != false {
		t.Errorf("catchall/prefix = %v/%v, want false/false", gotBody["catchall"], gotBody["prefix"])
	}
}

func TestClient_DeleteRoutingRule(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result":{}}`))
	})

	if err := c.DeleteRoutingRule(context.Background(), 42); err != nil {
		t.Fatalf("DeleteRoutingRule() error: %v", err)
	}
	if gotBody["routingRuleId"] != float64(42) {
		t.Errorf("routingRuleId = %v, want 42", gotBody["routingRuleId"])
	}
}
