package detect

import "strings"

// skipHosts lists mail and identity providers the detector never activates
// on, to avoid interfering with the user's primary mailbox or login flows.
var skipHosts = []string{
	"gmail.com",
	"mail.google.com",
	"outlook.com",
	"hotmail.com",
	"yahoo.com",
	"purelymail.com",
	"login.microsoftonline.com",
	"accounts.google.com",
	"id.atlassian.com",
	"auth0.com",
	"okta.com",
}

// IsSkippedHost reports whether hostname matches the skip list (or the extra
// entries) by case-insensitive substring.
func IsSkippedHost(hostname string, extra ...string) bool {
	h := strings.ToLower(hostname)
	for _, s := range skipHosts {
		if strings.Contains(h, s) {
			return true
		}
	}
	for _, s := range extra {
		if s != "" && strings.Contains(h, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
