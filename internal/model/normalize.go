package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists common legal entity suffixes to strip during name
// normalization.
var legalSuffixes = []string{
	" LLC", " L.L.C.", " L.L.C",
	" INC", " INC.", " INCORPORATED",
	" CORP", " CORP.", " CORPORATION",
	" LTD", " LTD.", " LIMITED",
	" LP", " L.P.",
	" LLP", " L.L.P.",
	" CO", " CO.",
	" PLC", " P.L.C.",
	" GMBH", " S.A.", " S.L.", " B.V.",
	" PLLC",
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// stripMarks removes combining diacritical marks after NFD decomposition, so
// "Café Olé" and "Cafe Ole" normalize identically.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName standardizes a business name for dedup matching:
//  1. Trim and uppercase
//  2. Fold diacritics
//  3. Remove common legal suffixes (LLC, Inc, Corp, ...)
//  4. Strip punctuation, mapping "&" to "AND"
//  5. Collapse runs of whitespace
//
// The (dataset_id, normalized_name) pair is unique; re-discovery of the same
// business must produce the same normalized form.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToUpper(name)

	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	name = strings.NewReplacer(
		",", "",
		".", "",
		"'", "",
		"\"", "",
		"&", "AND",
		"-", " ",
		"/", " ",
	).Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
