package crawl

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/publicsuffix"
)

// Canonicalize normalizes a URL for visited-set membership: scheme and host
// lowercased, default scheme https, fragment dropped, default ports removed,
// trailing slash trimmed except at the root.
func Canonicalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", eris.New("crawl: empty url")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "crawl: parse url %q", raw)
	}
	if u.Host == "" {
		return "", eris.Errorf("crawl: url %q has no host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if u.Path == "" {
		u.Path = "/"
	} else if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// SameSite reports whether two hosts share a registrable domain, so
// "shop.acme.co.uk" and "www.acme.co.uk" crawl as one site.
func SameSite(hostA, hostB string) bool {
	a, errA := publicsuffix.EffectiveTLDPlusOne(stripPort(strings.ToLower(hostA)))
	b, errB := publicsuffix.EffectiveTLDPlusOne(stripPort(strings.ToLower(hostB)))
	if errA != nil || errB != nil {
		// Fall back to exact-host comparison for IPs and single-label hosts.
		return stripPort(strings.ToLower(hostA)) == stripPort(strings.ToLower(hostB))
	}
	return a == b
}

func stripPort(host string) string {
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}

// Origin returns the scheme://host prefix of a URL.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}
