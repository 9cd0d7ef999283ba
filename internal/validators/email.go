package validators

import (
	"net"
	"strings"
)

// NormalizeEmail folds an address to its canonical stored form. Lookups and
// uniqueness comparisons always run on the normalized value.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailDomainValid checks that the part after the last "@" actually
// resolves, via MX records or a bare host record. It gates host registration
// only; invitee addresses are accepted as given.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
