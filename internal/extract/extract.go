// Package extract parses fetched HTML into deduplicated contact candidates
// with confidence scores. Confidence is informational metadata on the
// candidate, not a filter.
package extract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/scoutline/leadscout/internal/model"
)

// Candidate is one extracted contact value.
type Candidate struct {
	Type       model.ContactType `json:"type"`
	Value      string            `json:"value"`
	Generic    bool              `json:"generic,omitempty"`
	Obfuscated bool              `json:"obfuscated,omitempty"`
	Confidence float64           `json:"confidence"`
	SourceURL  string            `json:"source_url"`
	PageType   model.PageType    `json:"page_type"`

	// ContentHash identifies the exact page revision the value was found on.
	ContentHash string `json:"content_hash"`
}

// SocialLink is a profile link to a known platform.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Result is the deduplicated candidate set for one page.
type Result struct {
	Candidates []Candidate  `json:"candidates"`
	Socials    []SocialLink `json:"socials,omitempty"`
}

// Extractor parses pages. Region is the default phone-number region used when
// a number carries no country prefix (e.g. "US", "DE").
type Extractor struct {
	Region string
}

// New creates an Extractor. An empty region defaults to "US".
func New(region string) *Extractor {
	if region == "" {
		region = "US"
	}
	return &Extractor{Region: region}
}

// FromHTML extracts email, phone, and social candidates from one page.
func (e *Extractor) FromHTML(src []byte, sourceURL string) (*Result, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	pageType := PageTypeFor(sourceURL)
	base := baseConfidence(sourceURL)
	sum := sha256.Sum256(src)
	contentHash := hex.EncodeToString(sum[:])

	var (
		textParts   []string
		footerParts []string
		hrefs       []string
	)

	var walk func(n *html.Node, inFooter bool)
	walk = func(n *html.Node, inFooter bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "footer":
				inFooter = true
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						hrefs = append(hrefs, strings.TrimSpace(attr.Val))
					}
				}
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if inFooter {
					footerParts = append(footerParts, text)
				}
				textParts = append(textParts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inFooter)
		}
	}
	walk(doc, false)

	text := strings.Join(textParts, "\n")
	footerText := strings.Join(footerParts, "\n")

	result := &Result{}
	seen := make(map[string]bool)

	addEmail := func(value string, obfuscated bool, fromFooter bool) {
		value = strings.ToLower(strings.TrimSpace(value))
		key := "email:" + value
		if value == "" || seen[key] {
			return
		}
		seen[key] = true

		conf := base
		if obfuscated {
			conf += 0.1
		}
		if conf > 1.0 {
			conf = 1.0
		}
		pt := pageType
		if fromFooter {
			pt = model.PageTypeFooter
		}
		result.Candidates = append(result.Candidates, Candidate{
			Type:        model.ContactTypeEmail,
			Value:       value,
			Generic:     IsGenericEmail(value),
			Obfuscated:  obfuscated,
			Confidence:  conf,
			SourceURL:   sourceURL,
			PageType:    pt,
			ContentHash: contentHash,
		})
	}

	footerEmails := make(map[string]bool)
	for _, m := range findEmails(footerText) {
		footerEmails[strings.ToLower(m)] = true
	}
	for _, m := range findEmails(text) {
		addEmail(m, false, footerEmails[strings.ToLower(m)])
	}
	for _, m := range findObfuscatedEmails(text) {
		addEmail(m, true, false)
	}
	for _, href := range hrefs {
		if addr, ok := mailtoAddress(href); ok {
			addEmail(addr, false, false)
		}
	}

	for _, raw := range append(findPhones(text), telNumbers(hrefs)...) {
		normalized, ctype, ok := e.normalizePhone(raw)
		if !ok {
			continue
		}
		key := "phone:" + normalized
		if seen[key] {
			continue
		}
		seen[key] = true
		result.Candidates = append(result.Candidates, Candidate{
			Type:        ctype,
			Value:       normalized,
			Confidence:  base,
			SourceURL:   sourceURL,
			PageType:    pageType,
			ContentHash: contentHash,
		})
	}

	for _, link := range socialLinks(hrefs) {
		key := "social:" + link.Platform + ":" + link.URL
		if seen[key] {
			continue
		}
		seen[key] = true
		result.Socials = append(result.Socials, link)
	}

	return result, nil
}
