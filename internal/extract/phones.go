package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/scoutline/leadscout/internal/model"
)

// phoneRe is a deliberately broad pattern; normalizePhone filters the false
// positives it produces.
var phoneRe = regexp.MustCompile(`\+?[\d\(][\d\(\)\-\.\s/]{5,16}\d`)

// minSignificantDigits is the threshold below which a match is discarded as
// a false positive (prices, years, zip codes).
const minSignificantDigits = 7

func findPhones(text string) []string {
	return phoneRe.FindAllString(text, -1)
}

// telNumbers extracts raw numbers from tel: hrefs.
func telNumbers(hrefs []string) []string {
	var out []string
	for _, href := range hrefs {
		if strings.HasPrefix(strings.ToLower(href), "tel:") {
			out = append(out, strings.TrimPrefix(strings.TrimPrefix(href, "tel:"), "TEL:"))
		}
	}
	return out
}

// normalizePhone parses a raw match against the extractor's default region
// and returns the E.164 form plus the contact type: mobile when the numbering
// plan identifies the range as mobile-only, phone otherwise (US ranges are
// FIXED_LINE_OR_MOBILE and stay phone). Returns false for matches with fewer
// than minSignificantDigits significant digits or that fail validation.
func (e *Extractor) normalizePhone(raw string) (string, model.ContactType, bool) {
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minSignificantDigits {
		return "", "", false
	}

	num, err := phonenumbers.Parse(raw, e.Region)
	if err != nil {
		return "", "", false
	}
	if !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return "", "", false
	}

	ctype := model.ContactTypePhone
	if phonenumbers.GetNumberType(num) == phonenumbers.MOBILE {
		ctype = model.ContactTypeMobile
	}
	return phonenumbers.Format(num, phonenumbers.E164), ctype, true
}
