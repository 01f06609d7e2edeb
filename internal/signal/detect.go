package signal

import (
	"net/url"
	"strings"

	"surfwatch/internal/model"
)

// urlRule defines path/query pattern detection for one URL-derived code.
type urlRule struct {
	Code         model.SignalCode
	PathPatterns []string
	QueryParams  []string // any-of; combined with QueryNeeds below
}

// urlDetectionRules maps URL shapes to signal codes. Deterministic
// pattern matching over the lowercased path — no ML, no heuristics
// beyond substring tables.
var urlDetectionRules = []urlRule{
	{
		Code: URLLoginPath,
		PathPatterns: []string{"/login", "/log-in", "/signin", "/sign-in",
			"/sso", "/session/new", "/auth/", "/authenticate"},
	},
	{
		Code: URLSignupPath,
		PathPatterns: []string{"/signup", "/sign-up", "/register",
			"/registration", "/join"},
	},
	{
		Code:         URLAccountPath,
		PathPatterns: []string{"/account", "/profile", "/settings", "/preferences"},
	},
	{
		Code: URLPaymentPath,
		PathPatterns: []string{"/checkout", "/payment", "/billing",
			"/purchase", "/pay/", "/subscribe"},
	},
	{
		Code: URLEditorPath,
		PathPatterns: []string{"/edit", "/compose", "/write", "/submit",
			"/upload", "/new-post", "/create"},
	},
}

// oauthPathPatterns mark federation endpoints by path alone.
var oauthPathPatterns = []string{"/oauth", "/o/oauth2", "/openid", "/connect/authorize", "/saml"}

// oauthParams is the OAuth/OIDC query parameter shape: client_id plus at
// least one companion parameter.
var oauthCompanionParams = []string{"redirect_uri", "response_type", "scope", "state"}

// DetectURL derives signal codes from the URL's path and query shape.
// Pure function of the URL string; malformed input yields no signals,
// never an error.
func DetectURL(raw string) []model.SignalCode {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	path := strings.ToLower(u.EscapedPath())
	// Trailing slash so "/pay/" style patterns also match path ends.
	probe := path + "/"
	query := u.Query()

	var out []model.SignalCode
	if isOAuthShaped(probe, query) {
		out = append(out, URLOAuthParams)
	}
	for _, rule := range urlDetectionRules {
		for _, p := range rule.PathPatterns {
			if strings.Contains(probe, p) {
				out = append(out, rule.Code)
				break
			}
		}
	}
	return out
}

func isOAuthShaped(path string, query url.Values) bool {
	for _, p := range oauthPathPatterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	if query.Has("client_id") {
		for _, p := range oauthCompanionParams {
			if query.Has(p) {
				return true
			}
		}
	}
	return false
}
