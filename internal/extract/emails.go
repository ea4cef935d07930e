package extract

import (
	"net/url"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// obfuscatedEmailRe matches "name (at) domain (dot) tld" spellings and the
// common bracket variants. Obfuscated addresses are a stronger intent signal
// than plain ones: someone went out of their way to publish them.
var obfuscatedEmailRe = regexp.MustCompile(
	`(?i)([a-z0-9._%+\-]+)\s*[\(\[]?\s*(?:at|@)\s*[\)\]]?\s*([a-z0-9\-]+(?:\s*[\(\[]?\s*(?:dot|\.)\s*[\)\]]?\s*[a-z0-9\-]+)+)`)

var obfuscatedDotRe = regexp.MustCompile(`(?i)\s*[\(\[]?\s*(?:dot|\.)\s*[\)\]]?\s*`)

// genericPrefixes classify role addresses (info@, sales@) vs personal ones.
var genericPrefixes = []string{
	"info", "contact", "sales", "office", "hello", "mail", "admin",
	"support", "enquiries", "inquiries", "service", "team", "kontakt",
	"post", "booking", "reservations", "jobs", "billing", "help",
}

func findEmails(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// findObfuscatedEmails rewrites obfuscated matches into plain addresses. A
// match that is already a plain address ("a@b.com" also matches the pattern)
// is skipped; the standard pattern catches those.
func findObfuscatedEmails(text string) []string {
	var out []string
	for _, m := range obfuscatedEmailRe.FindAllStringSubmatch(text, -1) {
		if strings.Contains(m[0], "@") && !strings.ContainsAny(m[0], "([ ") {
			continue
		}
		domain := obfuscatedDotRe.ReplaceAllString(m[2], ".")
		addr := m[1] + "@" + domain
		if emailRe.MatchString(addr) {
			out = append(out, addr)
		}
	}
	return out
}

// mailtoAddress extracts the address from a mailto: href.
func mailtoAddress(href string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
		return "", false
	}
	addr := strings.TrimPrefix(href, "mailto:")
	addr = strings.TrimPrefix(addr, "MAILTO:")
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if decoded, err := url.QueryUnescape(addr); err == nil {
		addr = decoded
	}
	addr = strings.TrimSpace(addr)
	if !emailRe.MatchString(addr) {
		return "", false
	}
	return addr, true
}

// IsGenericEmail reports whether the address uses a role prefix like info@
// or sales@ rather than a person's name.
func IsGenericEmail(addr string) bool {
	at := strings.IndexByte(addr, '@')
	if at < 0 {
		return false
	}
	prefix := strings.ToLower(addr[:at])
	for _, g := range genericPrefixes {
		if prefix == g {
			return true
		}
	}
	return false
}
