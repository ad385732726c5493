package domain

import "time"

// DNSSummary holds the four independent DNS health checks for a domain.
type DNSSummary struct {
	PassesMX    bool
	PassesSPF   bool
	PassesDKIM  bool
	PassesDMARC bool
}

// Domain is a mail domain owned by or shared with the account.
// It is an immutable snapshot fetched per query, never cached across runs.
type Domain struct {
	Name                  string
	AllowAccountReset     bool
	SymbolicSubaddressing bool
	IsShared              bool
	DNS                   DNSSummary
}

// RoutingRule is a server-side alias. The id is assigned by the remote
// service and stable for the rule's lifetime. Exactly one of Catchall or a
// meaningful MatchUser drives matching; Prefix only applies when not catchall.
type RoutingRule struct {
	ID              int64
	DomainName      string
	Prefix          bool
	MatchUser       string
	TargetAddresses []string
	Catchall        bool
}

// Address returns the full alias address for a non-catchall rule.
func (r RoutingRule) Address() string {
	return r.MatchUser + "@" + r.DomainName
}

// TargetsInclude reports whether any target address equals addr.
func (r RoutingRule) TargetsInclude(addr string) bool {
	for _, t := range r.TargetAddresses {
		if t == addr {
			return true
		}
	}
	return false
}

// CreatedAlias is a local history record of an alias created through the
// toolkit. The remote service has no concept of this record.
type CreatedAlias struct {
	Alias         string
	TargetAddress string
	CreatedAt     time.Time
	CreatedFor    string
}
