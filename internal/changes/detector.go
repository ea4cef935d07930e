// Package changes reconciles freshly extracted contacts against the stored
// set, classifying every value as added, verified, or deactivated.
package changes

import (
	"time"

	"github.com/google/uuid"

	"github.com/scoutline/leadscout/internal/extract"
	"github.com/scoutline/leadscout/internal/model"
)

// Diff partitions the union of old-active and new contact keys. The three
// slices are disjoint and cover every key exactly once.
type Diff struct {
	Added       []model.Contact
	Verified    []model.Contact
	Deactivated []model.Contact

	// Sources holds one ContactSource per added contact, preferring the
	// homepage page when a value appeared on several pages.
	Sources []model.ContactSource
}

// Counts returns (added, verified, deactivated) sizes.
func (d *Diff) Counts() (int, int, int) {
	return len(d.Added), len(d.Verified), len(d.Deactivated)
}

// Detect diffs new extraction candidates for one business against its stored
// active contacts. Stored contacts that stopped appearing are deactivated,
// never deleted.
func Detect(businessID string, stored []model.Contact, found []extract.Candidate, now time.Time) *Diff {
	diff := &Diff{}

	// Index stored contacts by comparison key. Inactive rows are tracked
	// separately: a value that comes back must reuse its stored row id so
	// its sources keep a valid reference.
	oldByKey := make(map[model.ContactKey]model.Contact)
	inactiveByKey := make(map[model.ContactKey]model.Contact)
	for _, c := range stored {
		if !c.IsActive {
			inactiveByKey[c.Key()] = c
			continue
		}
		oldByKey[c.Key()] = c
	}

	// Collapse candidates by key, keeping the best source per value.
	type newContact struct {
		candidate extract.Candidate
	}
	newByKey := make(map[model.ContactKey]newContact)
	var order []model.ContactKey

	for _, cand := range found {
		key := model.ContactKey{
			Type:       cand.Type,
			Value:      model.NormalizeContactValue(cand.Type, cand.Value),
			BusinessID: businessID,
		}
		existing, ok := newByKey[key]
		if !ok {
			newByKey[key] = newContact{candidate: cand}
			order = append(order, key)
			continue
		}
		if preferSource(cand, existing.candidate) {
			newByKey[key] = newContact{candidate: cand}
		}
	}

	for _, key := range order {
		nc := newByKey[key]
		if prev, ok := oldByKey[key]; ok {
			prev.LastVerifiedAt = now
			prev.IsActive = true
			diff.Verified = append(diff.Verified, prev)
			delete(oldByKey, key)
			continue
		}

		contact := model.Contact{
			ID:             uuid.New().String(),
			BusinessID:     businessID,
			Type:           nc.candidate.Type,
			Value:          nc.candidate.Value,
			IsGeneric:      nc.candidate.Generic,
			IsActive:       true,
			FirstSeenAt:    now,
			LastVerifiedAt: now,
		}
		if prev, ok := inactiveByKey[key]; ok {
			// Reactivation of a deactivated contact.
			contact.ID = prev.ID
			contact.FirstSeenAt = prev.FirstSeenAt
		}
		diff.Added = append(diff.Added, contact)
		diff.Sources = append(diff.Sources, model.ContactSource{
			ID:          uuid.New().String(),
			ContactID:   contact.ID,
			SourceURL:   nc.candidate.SourceURL,
			PageType:    nc.candidate.PageType,
			ContentHash: nc.candidate.ContentHash,
			ObservedAt:  now,
		})
	}

	// Anything left in the old set disappeared from the site.
	for _, prev := range oldByKey {
		prev.IsActive = false
		diff.Deactivated = append(diff.Deactivated, prev)
	}

	return diff
}

// preferSource reports whether a's page is a better primary source than b's.
// Homepage wins; contact pages beat the rest; otherwise higher confidence.
func preferSource(a, b extract.Candidate) bool {
	ra, rb := sourceRank(a.PageType), sourceRank(b.PageType)
	if ra != rb {
		return ra < rb
	}
	return a.Confidence > b.Confidence
}

func sourceRank(pt model.PageType) int {
	switch pt {
	case model.PageTypeHomepage:
		return 0
	case model.PageTypeContact:
		return 1
	case model.PageTypeAbout:
		return 2
	case model.PageTypeCompany:
		return 3
	default:
		return 4
	}
}
