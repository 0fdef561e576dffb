package linkminer

import (
	"net/url"
	"strings"
)

// Normalize resolves rawHref against baseURL and returns the canonical form
// used for deduplication: absolute, fragment-free, with a lower-cased host.
// It handles absolute, scheme-relative and path-relative references.
// An EMALFORMED error is returned if either input cannot be parsed.
func Normalize(baseURL, rawHref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", Errorf(EMALFORMED, "invalid base URL %q: %v", baseURL, err)
	}
	ref, err := url.Parse(strings.TrimSpace(rawHref))
	if err != nil {
		return "", Errorf(EMALFORMED, "invalid link %q: %v", rawHref, err)
	}

	u := base.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	if u.Host != "" && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u.String(), nil
}

// Host returns the lower-cased host[:port] of rawURL.
func Host(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EMALFORMED, "invalid URL %q: %v", rawURL, err)
	}
	return strings.ToLower(u.Host), nil
}
