// Package urlx has the hostname and registrable-domain utilities the
// rest of the engine builds on. Every function returns "" for input it
// cannot use — absence of a signal is not a failure.
package urlx

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeHost extracts the lowercased hostname from a raw URL.
// Malformed URLs yield "".
func NormalizeHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// RegistrableDomain reduces a hostname to its eTLD+1 — the minimal
// non-identifying granularity for domain comparison. Hosts with no
// registrable domain (IPs, bare TLDs, empty input) yield "".
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return ""
	}
	// The suffix list's wildcard fallback would hand back a pseudo-domain
	// for IP literals ("0.1" for 192.168.0.1), so reject them up front.
	// url.Hostname() already strips IPv6 brackets.
	if net.ParseIP(host) != nil {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}

// DomainOf is RegistrableDomain over a full URL.
func DomainOf(raw string) string {
	return RegistrableDomain(NormalizeHost(raw))
}

// redirectParams are the only query parameters consulted for embedded
// redirect targets, in lookup order.
var redirectParams = []string{"redirect_uri", "return_to"}

// ExtractEmbeddedRedirectDomain reads the redirect_uri (or, if absent,
// return_to) query parameter of a URL and returns the registrable domain
// of its target. Later parameters are consulted only when earlier ones
// are absent: a present redirect_uri is authoritative even when its
// target is unusable. The raw parameter value — which may carry paths,
// query strings, and identifiers — never escapes this function; only the
// derived eTLD+1 is returned. Missing or malformed input yields "".
func ExtractEmbeddedRedirectDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	q := u.Query()
	for _, p := range redirectParams {
		v := q.Get(p)
		if v == "" {
			continue
		}
		target, err := url.Parse(v)
		if err != nil {
			return ""
		}
		return RegistrableDomain(target.Hostname())
	}
	return ""
}
