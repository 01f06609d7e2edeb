// Package federation infers Relying Party / Identity Provider
// relationships from URL structure, tab lineage, and session history.
// All inference is URL/session heuristics — nothing is verified on the
// network.
package federation

import (
	"strings"

	"surfwatch/internal/model"
	"surfwatch/internal/signal"
	"surfwatch/internal/urlx"
)

// knownIdPHosts are hostname suffixes of widely used identity providers.
// Matching a suffix here is structural evidence that the current page is
// an IdP. Extendable per deployment via Inferrer extras.
var knownIdPHosts = []string{
	"accounts.google.com",
	"login.microsoftonline.com",
	"login.live.com",
	"appleid.apple.com",
	"login.yahoo.com",
	"auth0.com",
	"okta.com",
	"onelogin.com",
	"id.atlassian.com",
	"sso.godaddy.com",
}

// knownIdPPathHosts need a path marker too: the bare host is a general
// site, only specific paths act as an IdP endpoint.
var knownIdPPathHosts = map[string][]string{
	"github.com":   {"/login/oauth"},
	"facebook.com": {"/dialog/oauth", "/v2.0/dialog/oauth"},
	"twitter.com":  {"/i/oauth2"},
	"x.com":        {"/i/oauth2"},
}

// Inference is the outcome of one inference pass over a navigation.
type Inference struct {
	Candidate model.RelationshipCandidate
	Signals   []model.SignalCode
	RoundTrip bool
}

// HasRelationship reports whether a meaningful RP/IdP pair was found.
func (inf Inference) HasRelationship() bool {
	return inf.Candidate.Complete()
}

// Inferrer derives federation candidates and relationship signals.
type Inferrer struct {
	extraHosts []string
}

// NewInferrer creates an Inferrer. Extra hostname suffixes extend the
// built-in IdP registry (deployment-specific SSO portals).
func NewInferrer(extraIdPHosts ...string) *Inferrer {
	return &Inferrer{extraHosts: extraIdPHosts}
}

// Infer runs the three inference paths over a navigation:
// redirect-parameter RP, opener-lineage RP, and IdP self-identification.
// Each path is optional; empty candidates mean no evidence, not failure.
func (i *Inferrer) Infer(currentURL, openerDomain string, sc model.SessionContext) Inference {
	var inf Inference
	inf.Candidate.IdP = urlx.DomainOf(currentURL)

	if rp := urlx.ExtractEmbeddedRedirectDomain(currentURL); rp != "" && rp != inf.Candidate.IdP {
		inf.Candidate.RP = rp
		inf.Signals = append(inf.Signals, signal.RelRedirectMatch)
	} else if openerDomain != "" && openerDomain != inf.Candidate.IdP {
		// If the current page is an identity provider, whoever opened it
		// is typically the relying party.
		inf.Candidate.RP = openerDomain
		inf.Signals = append(inf.Signals, signal.RelOpenerMatch)
	}

	if i.isKnownIdP(currentURL) {
		inf.Signals = append(inf.Signals, signal.RelKnownIdP)
	}

	if inf.Candidate.Complete() && RoundTrip(sc, inf.Candidate.RP, inf.Candidate.IdP) {
		inf.RoundTrip = true
		inf.Signals = append(inf.Signals, signal.RelTemporalChain)
	}

	return inf
}

func (i *Inferrer) isKnownIdP(rawURL string) bool {
	host := urlx.NormalizeHost(rawURL)
	if host == "" {
		return false
	}
	for _, suffix := range knownIdPHosts {
		if hostMatches(host, suffix) {
			return true
		}
	}
	for _, suffix := range i.extraHosts {
		if hostMatches(host, strings.ToLower(suffix)) {
			return true
		}
	}
	if paths, ok := knownIdPPathHosts[urlx.RegistrableDomain(host)]; ok {
		lower := strings.ToLower(rawURL)
		for _, p := range paths {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// hostMatches reports whether host equals the suffix or is a subdomain
// of it ("eu.auth0.com" matches "auth0.com", "notauth0.com" does not).
func hostMatches(host, suffix string) bool {
	if host == suffix {
		return true
	}
	return strings.HasSuffix(host, "."+suffix)
}
