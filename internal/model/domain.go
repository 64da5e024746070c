package model

import "strings"

// NormalizeDomain trims surrounding whitespace and lowercases a domain.
// It performs no other validation; an empty result means "no domain".
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// NormalizeDomainSet normalizes every domain, drops empty entries and
// duplicates, and keeps first-seen order.
func NormalizeDomainSet(domains []string) []string {
	out := make([]string, 0, len(domains))
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		n := NormalizeDomain(d)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
