package endpoint

import (
	"net/url"
	"strings"
)

// DefaultLocalURL is the backend origin used while developing locally.
const DefaultLocalURL = "http://localhost:8080"

// Resolver decides which backend origin a page should talk to.
type Resolver struct {
	// LocalURL is used when the page is served from a local host.
	LocalURL string
	// ProductionURL is used everywhere else. Empty means the page's own origin.
	ProductionURL string
	// ForceProduction ignores the page host and always uses ProductionURL.
	ForceProduction bool
}

// IsLocalHost reports whether hostname names the local development machine.
func IsLocalHost(hostname string) bool {
	return hostname == "localhost" || hostname == "127.0.0.1"
}

// BaseURL returns the backend origin, without a trailing slash, for a page
// served from page.
func (r Resolver) BaseURL(page *url.URL) string {
	if !r.ForceProduction && IsLocalHost(page.Hostname()) {
		if r.LocalURL == "" {
			return DefaultLocalURL
		}
		return strings.TrimRight(r.LocalURL, "/")
	}
	if r.ProductionURL != "" {
		return strings.TrimRight(r.ProductionURL, "/")
	}
	return Origin(page)
}

// Origin returns scheme://host of u.
func Origin(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}

// ParsePage parses a page URL such as the configured site URL. A bare host
// like "localhost:3000" is accepted and given the http scheme.
func ParsePage(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return url.Parse(raw)
}
