package model

import (
	"strings"
	"time"
)

// ContactType discriminates the value stored on a Contact. Exactly one of
// email/phone/mobile is populated per contact.
type ContactType string

const (
	ContactTypeEmail  ContactType = "email"
	ContactTypePhone  ContactType = "phone"
	ContactTypeMobile ContactType = "mobile"
)

// Contact is a single extracted contact value for a business. Contacts are
// never hard-deleted; the change detector deactivates values that stop
// appearing on the site.
type Contact struct {
	ID             string      `json:"id"`
	BusinessID     string      `json:"business_id"`
	Type           ContactType `json:"type"`
	Value          string      `json:"value"`
	IsGeneric      bool        `json:"is_generic"`
	IsActive       bool        `json:"is_active"`
	FirstSeenAt    time.Time   `json:"first_seen_at"`
	LastVerifiedAt time.Time   `json:"last_verified_at"`
}

// Key returns the comparison key used by the change detector:
// (type, normalized value, business id).
func (c Contact) Key() ContactKey {
	return ContactKey{
		Type:       c.Type,
		Value:      NormalizeContactValue(c.Type, c.Value),
		BusinessID: c.BusinessID,
	}
}

// ContactKey identifies a contact value for diffing across crawls.
type ContactKey struct {
	Type       ContactType
	Value      string
	BusinessID string
}

// NormalizeContactValue canonicalizes a contact value for key comparison.
// Emails compare case-insensitively; phones compare on digits only.
func NormalizeContactValue(t ContactType, v string) string {
	v = strings.TrimSpace(v)
	switch t {
	case ContactTypeEmail:
		return strings.ToLower(v)
	case ContactTypePhone, ContactTypeMobile:
		var b strings.Builder
		for _, r := range v {
			if r >= '0' && r <= '9' || r == '+' {
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		return v
	}
}

// PageType classifies the page a contact value was observed on.
type PageType string

const (
	PageTypeHomepage PageType = "homepage"
	PageTypeContact  PageType = "contact"
	PageTypeAbout    PageType = "about"
	PageTypeCompany  PageType = "company"
	PageTypeFooter   PageType = "footer"
)

// ContactSource records where a contact value was observed. Many sources may
// point at one contact.
type ContactSource struct {
	ID          string    `json:"id"`
	ContactID   string    `json:"contact_id"`
	SourceURL   string    `json:"source_url"`
	PageType    PageType  `json:"page_type"`
	ContentHash string    `json:"content_hash"`
	ObservedAt  time.Time `json:"observed_at"`
}
