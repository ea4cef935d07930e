package extract

import (
	"net/url"
	"strings"

	"github.com/scoutline/leadscout/internal/model"
)

// Localized path terms. Contact pages carry the strongest signal that a
// published value is a real business contact.
var (
	contactTerms = []string{
		"contact", "contact-us", "contactus", "kontakt", "contacto",
		"contatti", "contato", "get-in-touch", "reach-us", "impressum",
	}
	aboutTerms = []string{
		"about", "about-us", "aboutus", "a-propos", "uber-uns", "ueber-uns",
		"chi-siamo", "quienes-somos", "sobre", "over-ons",
	}
	companyTerms = []string{
		"company", "team", "our-team", "people", "staff", "unternehmen",
	}
	lowValueTerms = []string{
		"privacy", "terms", "cookie", "legal", "disclaimer", "datenschutz",
		"agb", "conditions",
	}
)

// PageTypeFor classifies a page by its URL path.
func PageTypeFor(rawURL string) model.PageType {
	path := urlPath(rawURL)
	if path == "" || path == "/" {
		return model.PageTypeHomepage
	}

	switch {
	case pathMatches(path, contactTerms):
		return model.PageTypeContact
	case pathMatches(path, aboutTerms):
		return model.PageTypeAbout
	case pathMatches(path, companyTerms):
		return model.PageTypeCompany
	default:
		// Any other interior page. Footer placement is detected separately
		// from document structure.
		return model.PageTypeCompany
	}
}

// baseConfidence scores a source URL: 0.9 for contact/about paths, 0.3 for
// privacy/terms boilerplate, 0.5 otherwise.
func baseConfidence(rawURL string) float64 {
	path := urlPath(rawURL)
	switch {
	case pathMatches(path, contactTerms), pathMatches(path, aboutTerms):
		return 0.9
	case pathMatches(path, lowValueTerms):
		return 0.3
	default:
		return 0.5
	}
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(u.Path, "/"))
}

func pathMatches(path string, terms []string) bool {
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		for _, term := range terms {
			if seg == term || strings.HasPrefix(seg, term+".") {
				return true
			}
		}
	}
	return false
}
